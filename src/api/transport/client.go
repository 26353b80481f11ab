package transport

import (
	"bufio"
	"fmt"
	"net"
	"time"
)

// Client dials a trace server and exchanges one request per call.
type Client struct {
	Addr    string
	Timeout time.Duration // 0 = no deadline
	coder   Coder
}

// NewClient returns a client with a 10-second default timeout.
func NewClient(addr string) *Client {
	return &Client{Addr: addr, Timeout: 10 * time.Second, coder: DefaultCoder{}}
}

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", c.Addr, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.Addr, err)
	}
	if c.Timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
			conn.Close()
			return nil, fmt.Errorf("set deadline: %w", err)
		}
	}
	return conn, nil
}

// Sort sends req and waits for the reply. A non-OK status is returned as a
// reply, not an error; errors are transport failures only.
func (c *Client) Sort(req *SortRequest) (*SortReply, error) {
	coder := c.coder
	if coder == nil {
		coder = DefaultCoder{}
	}

	data, err := coder.EncodeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	reply, err := coder.DecodeReply(bufio.NewReader(conn))
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	return reply, nil
}
