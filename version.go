package swapd

// Version is overwritten at build time with
// -ldflags "-X github.com/swapvault/swapd.Version=<tag>".
var Version = "dev"
