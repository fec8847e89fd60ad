package femtologging

// GetLogger returns the named logger from the default registry, creating
// it lazily if necessary. This, plus the package-level level methods
// below, mirrors sawmill.go's DefaultLogger convenience surface.
func GetLogger(name string) *Logger { return Default.GetLogger(name) }

// RootLogger returns the default registry's root logger.
func RootLogger() *Logger { return Default.Root() }

func Trace(msg string, attrs ...KV)    { Default.Root().Trace(msg, attrs...) }
func Debug(msg string, attrs ...KV)    { Default.Root().Debug(msg, attrs...) }
func Info(msg string, attrs ...KV)     { Default.Root().Info(msg, attrs...) }
func Warn(msg string, attrs ...KV)     { Default.Root().Warn(msg, attrs...) }
func Error(msg string, attrs ...KV)    { Default.Root().Error(msg, attrs...) }
func Critical(msg string, attrs ...KV) { Default.Root().Critical(msg, attrs...) }
