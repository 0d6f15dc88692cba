package types

// Category is the installable-file-type classification of an entry.
// CategoryNone is the universal "excluded" value.
type Category int

const (
	CategoryNone Category = iota
	CategoryKernelModule
	CategoryKernelModuleSrc
	CategoryKernelModuleCmd
	CategoryOpenGLHeader
	CategoryOpenGLLib
	CategoryOpenGLSymlink
	CategoryXLibSharedLib
	CategoryXLibStaticLib
	CategoryXLibSymlink
	CategoryXModuleSharedLib
	CategoryXModuleStaticLib
	CategoryXModuleSymlink
	CategoryTLSLib
	CategoryTLSSymlink
	CategoryLibGLLa
	CategoryDocumentation
	CategoryInstallerBinary
	CategoryUtilityBinary
	CategoryDotDesktop
)

// Capabilities describes what a category carries and how it is treated.
type Capabilities struct {
	// Keyword is the category name used in package manifests.
	Keyword string
	// HasArch means manifest lines carry a NATIVE/COMPAT32 field.
	HasArch bool
	// HasABI means manifest lines carry a CLASSIC/NEW field.
	HasABI bool
	// HasPath means manifest lines carry a relative directory.
	HasPath bool
	// Symlink entries are created as links to SymlinkTarget.
	Symlink bool
	// SharedLib entries are shared objects.
	SharedLib bool
	// LinkageChecked entries take part in the runtime linkage check.
	LinkageChecked bool
	// Template entries are rendered before installation.
	Template bool
	// Installable entries are regular files copied to their destination.
	Installable bool
}

var capabilityTable = map[Category]Capabilities{
	CategoryKernelModule:     {Keyword: "KERNEL_MODULE", Installable: true},
	CategoryKernelModuleSrc:  {Keyword: "KERNEL_MODULE_SRC", HasPath: true, Installable: true},
	CategoryKernelModuleCmd:  {Keyword: "KERNEL_MODULE_CMD"},
	CategoryOpenGLHeader:     {Keyword: "OPENGL_HEADER", HasPath: true, Installable: true},
	CategoryOpenGLLib:        {Keyword: "OPENGL_LIB", HasArch: true, HasPath: true, SharedLib: true, LinkageChecked: true, Installable: true},
	CategoryOpenGLSymlink:    {Keyword: "OPENGL_SYMLINK", HasArch: true, HasPath: true, Symlink: true},
	CategoryXLibSharedLib:    {Keyword: "XLIB_SHARED_LIB", HasPath: true, SharedLib: true, Installable: true},
	CategoryXLibStaticLib:    {Keyword: "XLIB_STATIC_LIB", HasPath: true, Installable: true},
	CategoryXLibSymlink:      {Keyword: "XLIB_SYMLINK", HasPath: true, Symlink: true},
	CategoryXModuleSharedLib: {Keyword: "XMODULE_SHARED_LIB", HasPath: true, SharedLib: true, Installable: true},
	CategoryXModuleStaticLib: {Keyword: "XMODULE_STATIC_LIB", HasPath: true, Installable: true},
	CategoryXModuleSymlink:   {Keyword: "XMODULE_SYMLINK", HasPath: true, Symlink: true},
	CategoryTLSLib:           {Keyword: "TLS_LIB", HasArch: true, HasABI: true, HasPath: true, SharedLib: true, LinkageChecked: true, Installable: true},
	CategoryTLSSymlink:       {Keyword: "TLS_SYMLINK", HasArch: true, HasABI: true, HasPath: true, Symlink: true},
	CategoryLibGLLa:          {Keyword: "LIBGL_LA", HasArch: true, HasPath: true, Template: true, Installable: true},
	CategoryDocumentation:    {Keyword: "DOCUMENTATION", HasPath: true, Installable: true},
	CategoryInstallerBinary:  {Keyword: "INSTALLER_BINARY", Installable: true},
	CategoryUtilityBinary:    {Keyword: "UTILITY_BINARY", Installable: true},
	CategoryDotDesktop:       {Keyword: "DOT_DESKTOP", HasPath: true, Template: true, Installable: true},
}

// Caps returns the capabilities of the category; CategoryNone and unknown
// values have none.
func (c Category) Caps() Capabilities {
	return capabilityTable[c]
}

// String returns the manifest keyword, or "NONE".
func (c Category) String() string {
	if caps, ok := capabilityTable[c]; ok {
		return caps.Keyword
	}
	return "NONE"
}

// ParseCategory maps a manifest keyword to its Category.
func ParseCategory(keyword string) (Category, bool) {
	for c, caps := range capabilityTable {
		if caps.Keyword == keyword {
			return c, true
		}
	}
	return CategoryNone, false
}

// ArchClass distinguishes native builds from 32-bit compatibility builds of
// the same library.
type ArchClass int

const (
	ArchNone ArchClass = iota
	ArchNative
	ArchCompat32
)

func (a ArchClass) String() string {
	switch a {
	case ArchNative:
		return "NATIVE"
	case ArchCompat32:
		return "COMPAT32"
	default:
		return "NONE"
	}
}

// ParseArchClass maps NATIVE/COMPAT32 to an ArchClass.
func ParseArchClass(s string) (ArchClass, bool) {
	switch s {
	case "NATIVE":
		return ArchNative, true
	case "COMPAT32":
		return ArchCompat32, true
	}
	return ArchNone, false
}

// ABIClass distinguishes classic thread-local-storage builds from new TLS
// builds.
type ABIClass int

const (
	ABINone ABIClass = iota
	ABIClassic
	ABINew
)

func (a ABIClass) String() string {
	switch a {
	case ABIClassic:
		return "CLASSIC"
	case ABINew:
		return "NEW"
	default:
		return "NONE"
	}
}

// ParseABIClass maps CLASSIC/NEW to an ABIClass.
func ParseABIClass(s string) (ABIClass, bool) {
	switch s {
	case "CLASSIC":
		return ABIClassic, true
	case "NEW":
		return ABINew, true
	}
	return ABINone, false
}

// Selection is the ABI variant chosen for one architecture class.
type Selection struct {
	Arch ArchClass
	ABI  ABIClass
	// Forced is set when an operator override chose the variant and no
	// probe ran.
	Forced bool
}

// Selections holds at most one Selection per architecture class.
type Selections []Selection

// For returns the selection made for arch.
func (s Selections) For(arch ArchClass) (Selection, bool) {
	for _, sel := range s {
		if sel.Arch == arch {
			return sel, true
		}
	}
	return Selection{}, false
}
