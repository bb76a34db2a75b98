package common

// CaycVersion is the current compiler version as a string.
const CaycVersion string = "0.1.0"

// SourceFileExt is the file extension for a source file.
const SourceFileExt string = ".cay"

// OutputFileExt is the file extension of the generated LLVM IR.
const OutputFileExt string = ".ll"

// ProfileFileName is the name of the build profile looked for next to the
// source file when no profile is given explicitly.
const ProfileFileName string = "cayc.toml"

// DefaultTargetTriple is the target written into generated modules when no
// profile or flag selects one.
const DefaultTargetTriple string = "x86_64-pc-linux-gnu"
