package chronicle

import (
	"os"

	"go.uber.org/zap"
)

// mapping merepresentasikan satu file yang di-memory-map.
//
// Field `data` berisi hasil dari `unix.Mmap` dengan MAP_SHARED, sehingga setiap
// proses yang memetakan file yang sama melihat byte yang sama; operasi atomik
// pada `data` berlaku lintas proses.
//
// Catatan: definisi tidak diekspor; API publik berinteraksi melalui
// MappedStore.
type mapping struct {
	file     *os.File    // descriptor file fisik
	data     []byte      // region memory-map
	path     string      // path file pada disk
	size     int64       // ukuran region dalam byte
	readOnly bool        // dipetakan dengan PROT_READ saja
	log      *zap.Logger // tujuan log siklus hidup
}
