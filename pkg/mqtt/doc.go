// Package mqtt publishes command results to an MQTT broker. Responses keep
// their wire shape on the bus: a JSON object mapping each field name to a
// [value, unit] pair, errors included under the reserved ERROR key.
package mqtt
