package transport

import "net"

type TransportHandler interface {
	ListenAndAccept() error // listen and accept connections
	Addr() net.Addr         // bound listener address, nil before ListenAndAccept
	Close() error           // stop accepting and release the listener
}

// Handler answers one sort request. It must always return a reply.
type Handler func(req *SortRequest) *SortReply
