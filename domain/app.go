package domain

const (
	// AppTitle is the display name used in headers and the CLI banner.
	AppTitle = "IAV"
	// AppName is the binary and config directory name.
	AppName = "iav"
)
