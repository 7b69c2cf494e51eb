// Package message defines the wire types exchanged across the bus: the
// dynamic Value tree used for parameters and results, the Message tagged
// union (Connect/Request/Result/Status/Disconnect), the StatusCode
// taxonomy, and the Envelope that carries a batch of Messages between two
// bus addresses.
package message
