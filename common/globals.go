package common

// GarnetVersion is the current Garnet version as a string.
const GarnetVersion string = "0.1.0"

// ProjectFileName is the name for Garnet project files.
const ProjectFileName string = "garnet.toml"

// ASTFileExt is the file extension for a serialized Ruby AST file.
const ASTFileExt string = ".sexp"

// DefaultRuntimeHeader is the runtime header included by every generated
// translation unit unless the project says otherwise.
const DefaultRuntimeHeader string = "natalie.h"

// DefaultVarPrefix is the prefix prepended to every synthesized C name.
const DefaultVarPrefix string = ""
