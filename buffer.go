package chronicle

import "sync"

const copyChunk = 32 * 1024

var copyBufPool = sync.Pool{New: func() any {
	b := make([]byte, copyChunk)
	return &b
}}

// getCopyBuf mengambil buffer dari pool. Ukuran buffer selalu copyChunk byte.
func getCopyBuf() *[]byte {
	return copyBufPool.Get().(*[]byte)
}

// returnCopyBuf mengembalikan buffer ke pool. Hanya buffer dengan ukuran tepat
// yang dimasukkan kembali untuk menghindari fragmentasi.
func returnCopyBuf(buf *[]byte) {
	if len(*buf) == copyChunk {
		copyBufPool.Put(buf)
	}
}
