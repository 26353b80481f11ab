package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	logs "github.com/danmuck/smplog"
)

type TCPHandler struct {
	address  string
	listener net.Listener
	handle   Handler
	coder    Coder
	exit     chan any
}

// TCPHandler generator function
func NewTCPHandler(address string, exit chan any, handle Handler) *TCPHandler {
	logs.Debugf("NewTCPHandler(%s)", address)
	if handle == nil {
		handle = SortHandler
	}
	return &TCPHandler{
		address: address,
		handle:  handle,
		exit:    exit,
		coder:   DefaultCoder{},
	}
}

// interface

// Close releases the listener. Connection goroutines stop once exit is closed.
func (h *TCPHandler) Close() error {
	logs.Debugf("Close(start)")
	if h.listener == nil {
		return nil
	}
	err := h.listener.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	logs.Debugf("Close(done)")
	return err
}

// Listen and accept connections via TCPHandler.listener
func (h *TCPHandler) ListenAndAccept() error {
	logs.Debugf("ListenAndAccept(%s)", h.address)
	var err error
	h.listener, err = net.Listen("tcp", h.address)
	if err != nil {
		return err
	}

	go h.acceptConnections()

	return nil
}

func (h *TCPHandler) Addr() net.Addr {
	if h.listener == nil {
		return nil
	}
	return h.listener.Addr()
}

// private

// listener accept loop
func (h *TCPHandler) acceptConnections() {
	logs.Debugf("acceptConnections(): start")
	defer h.listener.Close()
	for {
		select {
		case <-h.exit:
			logs.Debugf("acceptConnections(): exit")
			return
		default:
			if tl, ok := h.listener.(*net.TCPListener); ok {
				tl.SetDeadline(time.Now().Add(500 * time.Millisecond)) // Non-blocking
			}
			conn, err := h.listener.Accept()
			if err != nil {
				if opErr, ok := err.(*net.OpError); ok && opErr.Timeout() {
					// Timeout, continue to check exit
					continue
				}
				if !errors.Is(err, net.ErrClosed) {
					logs.Warnf("acceptConnections error: %s", err)
				}
				return
			}
			go h.handleConnection(conn)
		}
	}
}

// listener connection handler, one reply per request until the peer hangs up
func (h *TCPHandler) handleConnection(conn net.Conn) {
	defer conn.Close()
	clientAddr := conn.RemoteAddr().String()
	logs.Debugf("handleConnection(%s): start", clientAddr)

	reader := bufio.NewReader(conn)

	for {
		select {
		case <-h.exit:
			logs.Debugf("handleConnection(): exit")
			return
		default:
			conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond)) // Non-blocking

			if _, err := reader.Peek(4); err != nil {
				if opErr, ok := err.(*net.OpError); ok && opErr.Timeout() {
					// Timeout, continue to check exit
					continue
				}
				if errors.Is(err, io.EOF) {
					logs.Debugf("Connection closed by peer.")
					return
				}
				logs.Warnf("Error reading from reader: %v", err)
				return
			}

			// a header is buffered; read the rest without the poll deadline
			conn.SetReadDeadline(time.Time{})
			req, err := h.coder.DecodeRequest(reader)
			if err != nil {
				logs.Warnf("handleConnection(%s) decode: %v", clientAddr, err)
				return
			}

			if err := h.reply(conn, h.handle(req)); err != nil {
				logs.Warnf("handleConnection(%s) reply: %v", clientAddr, err)
				return
			}
		}
	}
}

func (h *TCPHandler) reply(conn net.Conn, reply *SortReply) error {
	data, err := h.coder.EncodeReply(reply)
	if errors.Is(err, ErrFrameTooLarge) {
		data, err = h.coder.EncodeReply(&SortReply{Status: StatusError, Error: err.Error()})
	}
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("failed to write reply: %w", err)
	}
	return nil
}
