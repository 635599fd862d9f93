// Package protocols links in every built-in protocol codec. Importing it
// for side effects makes all dialects resolvable by name.
package protocols

import (
	_ "github.com/powermon-protocol/powermon-go/pkg/protocols/jk02"
	_ "github.com/powermon-protocol/powermon-go/pkg/protocols/pi30"
)
