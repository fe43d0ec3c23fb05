// encoding/doc.go
package encoding

/*
Package encoding provides a reusable byte-buffer pool, used by the CLI's
UDP reader for its read buffer, reducing GC pressure when reading many
framed datagrams off a socket.
*/
