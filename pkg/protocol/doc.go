// Package protocol defines the codec capability the device layer consumes
// and the registry that resolves protocol names to codec instances.
//
// A Codec owns a command registry (name -> definition), the subsets of
// commands that make up a status or settings sweep, a default command, and
// the encode/decode operations for its wire dialect. Concrete codecs live
// under pkg/protocols and register themselves by name at init time.
//
// Resolution failures are values, not panics: an unknown name or a factory
// that produces no codec yields a ResolutionError, and the caller is
// expected to degrade to an unbound-protocol state.
package protocol
