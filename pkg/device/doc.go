// Package device binds a power device to one transport backend and one
// protocol codec, and drives single or batched commands through them.
//
// A Device is created from a locator string and a protocol name. The
// locator is classified into a transport kind; the protocol name is
// resolved against the codec registry. Either binding may fail or be left
// empty. The device still constructs, and command execution reports the
// missing binding in-band.
//
// Every public execution method returns the uniform Response shape. Expected
// failures (missing bindings, malformed batch entries, transport errors,
// decode errors) are carried under the reserved ERROR key; nothing in the
// pipeline panics or returns a Go error across this boundary.
//
// A Device assumes single-goroutine access: commands run strictly
// sequentially, and rebinding while a command is in flight is not safe.
// Callers needing concurrent access must serialize externally.
package device
