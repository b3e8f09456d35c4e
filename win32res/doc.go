// Package win32res holds the native Win32 resources destined for the resource
// section of an output image.
//
// A Resource carries opaque data plus a code page, a language id and two
// identity pairs (type and name), each either numeric or named. A Directory
// accumulates resources in insertion order and hands them to the image writer
// unchanged:
//
//	dir := win32res.NewDirectory(win32res.KeepAll)
//	_ = dir.Add(win32res.Resource{
//	    Type:       win32res.ID(win32res.TypeVersion),
//	    Name:       win32res.ID(1),
//	    LanguageID: 0x0409,
//	    Data:       versionInfo,
//	})
//
// # Duplicates
//
// What happens when two resources share a (type, name, language) identity is
// an explicit DuplicatePolicy. KeepAll accumulates both and leaves the
// decision to the writer; Reject refuses the later entry with a
// KindDuplicate error.
//
// # .res files
//
// ParseRES and WriteRES read and write the 32-bit resource file format
// produced by resource compilers, which is how resources are merged into a
// compilation.
package win32res
