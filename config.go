package chronicle

import (
	"encoding/json"
	"fmt"
	"os"
)

// persistedDescriptor captures the subset of MappedOptions that affects how
// the mapped bytes are interpreted.
type persistedDescriptor struct {
	Size      int64     `json:"size"`
	ByteOrder ByteOrder `json:"byte_order"`
}

func descriptorPath(path string) string { return path + ".config" }

// verifyOrWriteDescriptor loads an existing descriptor if present and adopts
// its values into opts. If the file does not exist it is written from opts,
// unless the mapping is read-only.
func verifyOrWriteDescriptor(path string, opts *MappedOptions) error {
	want := persistedDescriptor{Size: opts.Size, ByteOrder: opts.ByteOrder}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if opts.ReadOnly || opts.Size <= 0 {
			return nil
		}
		// first time: write file
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create descriptor: %w", err)
		}
		defer f.Close()
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(want); err != nil {
			return fmt.Errorf("encode descriptor: %w", err)
		}
		return nil
	}

	// file exists, load & sync options
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open descriptor: %w", err)
	}
	defer f.Close()
	var have persistedDescriptor
	if err := json.NewDecoder(f).Decode(&have); err != nil {
		return fmt.Errorf("decode descriptor: %w", err)
	}

	if have.Size != want.Size || have.ByteOrder != want.ByteOrder {
		opts.Logger.Debug("descriptor overrides options")
	}
	// override supplied opts with persisted values to ensure consistency
	opts.Size = have.Size
	opts.ByteOrder = have.ByteOrder
	return nil
}
