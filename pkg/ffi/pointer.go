package ffi

// Null is the address of the null pointer
const Null uintptr = 0

// EncodePointer turns an address into the integer stored inside the
// reserved pointer constructor. Addresses are kept relative to Null.
func EncodePointer(p uintptr) int64 {
	return int64(p - Null)
}

// DecodePointer is the inverse of EncodePointer
func DecodePointer(i int64) uintptr {
	return Null + uintptr(i)
}
