// Package uia provides Windows platform support using the UI Automation
// COM API. The binding is hand-declared over go-ole's IUnknown; only the
// vtable slots this tool calls are mapped. On other platforms the package
// compiles as an empty stub so the blank import in main stays portable.
package uia
