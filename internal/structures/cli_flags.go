package structures

// CliFlags carries command line values that take precedence over the config file.
type CliFlags struct {
	ConfigPath  string
	DebugMode   bool
	Directories []string
}
