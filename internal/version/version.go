package version

// Version is stamped at build time via -ldflags "-X github.com/whichfilm/reelfeed/internal/version.Version=...".
var Version = "dev"
