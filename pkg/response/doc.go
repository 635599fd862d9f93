// Package response defines the uniform result shape of every command
// execution against a power device.
//
// A Response maps field names (or batch aliases) to Field values carrying a
// decoded value and its unit. Expected failures never cross the command API
// as errors; they are carried in-band under the reserved "ERROR" key with
// the shape [message, detail].
//
// Internally failures are typed (CommandError with a Kind); the two-element
// [value, unit] array shape exists only at serialization boundaries (JSON
// output, MQTT payloads).
package response
