package loader

// SplitSpec exposes splitSpec to the external test package, which cannot be
// in-package because the generated mocks import this package.
var SplitSpec = splitSpec
