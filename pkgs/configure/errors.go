package configure

import "fmt"

// ToolNotFoundError reports a discovery program that could not be resolved.
type ToolNotFoundError struct {
	Program string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("required program %q not found.", e.Program)
}

// LibraryNotFoundError reports a non-zero exit from "<program> --exists".
type LibraryNotFoundError struct {
	Library  string
	Program  string
	ExitCode int
}

func (e *LibraryNotFoundError) Error() string {
	return fmt.Sprintf("required library %s not found", shellQuote(e.Library))
}

// VersionError reports an installed library older than required.
type VersionError struct {
	Library string
	Have    string
	Want    string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("required library %s version %s or newer, found %s", shellQuote(e.Library), e.Want, e.Have)
}
