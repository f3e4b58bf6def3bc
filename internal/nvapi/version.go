package nvapi

// MakeVersion builds an NVAPI struct version tag: the struct's byte size in
// the low 16 bits and the revision in the high 16 bits. The driver rejects
// structs whose tag does not match the layout it expects.
func MakeVersion(size, revision uint32) uint32 {
	return size&0xFFFF | revision<<16
}
