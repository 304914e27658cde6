//go:build linux && cgo

// Package native loads shared libraries with dlopen and calls into them
// through libffi.
package native

/*
#cgo LDFLAGS: -ldl
#cgo pkg-config: libffi
#include <ffi.h>
#include <dlfcn.h>
#include <stdlib.h>
#include <stdint.h>

static void* tt_dlopen(const char* path) {
	return dlopen(path, RTLD_LAZY | RTLD_LOCAL);
}
static const char* tt_dlerror(void) {
	return dlerror();
}
static int tt_dlclose(void* h) {
	return dlclose(h);
}

// Clear dlerror before dlsym so a NULL symbol can be told apart from a
// failed lookup.
static void* tt_dlsym(void* h, const char* name, int* ok) {
	dlerror();
	void* p = dlsym(h, name);
	*ok = dlerror() == NULL;
	return p;
}

static ffi_cif* tt_alloc_cif(void) {
	return (ffi_cif*)malloc(sizeof(ffi_cif));
}

static void tt_ffi_call(ffi_cif* cif, void* fn, void* rvalue, void** avalue) {
	ffi_call(cif, (void (*)(void))fn, rvalue, avalue);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"ttexec/pkg/ffi"
)

// Library is a dlopen'ed shared library
type Library struct {
	path string
	h    unsafe.Pointer
}

// Open loads the shared library at path
func Open(path string) (*Library, error) {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	h := C.tt_dlopen(cs)
	if h == nil {
		return nil, fmt.Errorf("dlopen(%q) failed: %s", path, dlerr())
	}
	return &Library{path: path, h: h}, nil
}

func dlerr() string {
	if e := C.tt_dlerror(); e != nil {
		return C.GoString(e)
	}
	return "unknown dlerror"
}

func (l *Library) Name() string {
	return l.path
}

// Symbol returns the address of name in the library
func (l *Library) Symbol(name string) (uintptr, bool) {
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))
	var ok C.int
	p := C.tt_dlsym(l.h, cs, &ok)
	if ok == 0 || p == nil {
		return 0, false
	}
	return uintptr(p), true
}

// Close unloads the library
func (l *Library) Close() error {
	if l.h == nil {
		return nil
	}
	if C.tt_dlclose(l.h) != 0 {
		return fmt.Errorf("dlclose(%q) failed: %s", l.path, dlerr())
	}
	l.h = nil
	return nil
}

// Invoker calls native functions through libffi
type Invoker struct{}

func ffiType(t ffi.Type) *C.ffi_type {
	switch t {
	case ffi.FInt, ffi.FChar:
		return &C.ffi_type_sint32
	case ffi.FFloat:
		return &C.ffi_type_double
	case ffi.FString, ffi.FPtr:
		return &C.ffi_type_pointer
	default:
		return &C.ffi_type_void
	}
}

// Invoke calls the function at addr. FUnit arguments are not passed.
func (Invoker) Invoke(addr uintptr, d ffi.Descriptor, args []ffi.Arg) (ffi.Result, error) {
	var native []ffi.Arg
	for _, a := range args {
		if a.Type != ffi.FUnit {
			native = append(native, a)
		}
	}
	n := len(native)
	ptrSize := C.size_t(unsafe.Sizeof(uintptr(0)))

	var types **C.ffi_type
	var values *unsafe.Pointer
	if n > 0 {
		types = (**C.ffi_type)(C.malloc(C.size_t(n) * ptrSize))
		defer C.free(unsafe.Pointer(types))
		values = (*unsafe.Pointer)(C.malloc(C.size_t(n) * ptrSize))
		defer C.free(unsafe.Pointer(values))
	}
	typeVec := unsafe.Slice(types, n)
	valueVec := unsafe.Slice(values, n)

	for i, a := range native {
		// every argument slot is 8 bytes on the C heap
		buf := C.malloc(8)
		defer C.free(buf)
		switch a.Type {
		case ffi.FInt, ffi.FChar:
			*(*C.int)(buf) = C.int(a.Int)
		case ffi.FFloat:
			*(*C.double)(buf) = C.double(a.Float)
		case ffi.FString:
			cs := C.CString(a.Str)
			defer C.free(unsafe.Pointer(cs))
			*(**C.char)(buf) = cs
		case ffi.FPtr:
			// the address came from native code; it is never dereferenced here
			*(*unsafe.Pointer)(buf) = unsafe.Pointer(a.Ptr)
		default:
			return ffi.Result{}, fmt.Errorf("%w: unsupported argument type %s", ffi.ErrMarshal, a.Type)
		}
		typeVec[i] = ffiType(a.Type)
		valueVec[i] = buf
	}

	cif := C.tt_alloc_cif()
	if cif == nil {
		return ffi.Result{}, fmt.Errorf("ffi: out of memory")
	}
	defer C.free(unsafe.Pointer(cif))
	if st := C.ffi_prep_cif(cif, C.FFI_DEFAULT_ABI, C.uint(n), ffiType(d.Ret), types); st != C.FFI_OK {
		return ffi.Result{}, fmt.Errorf("ffi_prep_cif(%s) failed: %d", d.Symbol, int(st))
	}

	// libffi widens integral returns to ffi_arg, so keep at least 16 bytes
	rbuf := C.malloc(16)
	defer C.free(rbuf)
	C.tt_ffi_call(cif, unsafe.Pointer(addr), rbuf, values)

	res := ffi.Result{Type: d.Ret}
	switch d.Ret {
	case ffi.FInt, ffi.FChar:
		res.Int = int64(int32(*(*C.ffi_sarg)(rbuf)))
	case ffi.FFloat:
		res.Float = float64(*(*C.double)(rbuf))
	case ffi.FString:
		if p := *(**C.char)(rbuf); p != nil {
			res.Str = C.GoString(p)
		}
	case ffi.FPtr:
		res.Ptr = uintptr(*(*unsafe.Pointer)(rbuf))
	}
	return res, nil
}
