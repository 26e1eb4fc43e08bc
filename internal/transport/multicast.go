package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/net/ipv4"
)

const (
	// DefaultGroup is the multicast group shared by producer and display.
	DefaultGroup = "224.1.1.1"
	// DefaultPort is the UDP port of the group.
	DefaultPort = 5007
	// DefaultTTL is the hop limit set on outgoing datagrams.
	DefaultTTL = 2

	readBufferSize = 65535
	pollInterval   = 200 * time.Millisecond
)

// Config addresses a multicast group.
type Config struct {
	Group     string
	Port      int
	TTL       int
	Interface string
}

func (c Config) withDefaults() Config {
	if c.Group == "" {
		c.Group = DefaultGroup
	}
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	return c
}

func (c Config) groupAddr() (*net.UDPAddr, error) {
	ip := net.ParseIP(c.Group)
	if ip == nil || ip.To4() == nil || !ip.IsMulticast() {
		return nil, fmt.Errorf("invalid IPv4 multicast group %q", c.Group)
	}
	return &net.UDPAddr{IP: ip, Port: c.Port}, nil
}

func (c Config) iface() (*net.Interface, error) {
	if c.Interface == "" {
		return nil, nil
	}
	ifi, err := net.InterfaceByName(c.Interface)
	if err != nil {
		return nil, fmt.Errorf("interface %q: %w", c.Interface, err)
	}
	return ifi, nil
}

// MulticastSender sends datagrams to a multicast group.
type MulticastSender struct {
	conn  *net.UDPConn
	group *net.UDPAddr
}

// Dial opens an unconnected UDP socket configured for the group's TTL.
func Dial(cfg Config) (*MulticastSender, error) {
	cfg = cfg.withDefaults()
	group, err := cfg.groupAddr()
	if err != nil {
		return nil, err
	}
	ifi, err := cfg.iface()
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	if err != nil {
		return nil, fmt.Errorf("open sender socket: %w", err)
	}
	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastTTL(cfg.TTL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set multicast ttl: %w", err)
	}
	if err := pc.SetMulticastLoopback(true); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set multicast loopback: %w", err)
	}
	if ifi != nil {
		if err := pc.SetMulticastInterface(ifi); err != nil {
			conn.Close()
			return nil, fmt.Errorf("set multicast interface: %w", err)
		}
	}
	return &MulticastSender{conn: conn, group: group}, nil
}

// Send writes one datagram to the group.
func (s *MulticastSender) Send(data []byte) error {
	if _, err := s.conn.WriteToUDP(data, s.group); err != nil {
		return &Error{Op: "send", Err: err}
	}
	return nil
}

// Addr returns the group address datagrams are sent to.
func (s *MulticastSender) Addr() string {
	return s.group.String()
}

// Close releases the socket.
func (s *MulticastSender) Close() error {
	return s.conn.Close()
}

// MulticastReceiver receives datagrams from a joined multicast group.
type MulticastReceiver struct {
	conn   net.PacketConn
	pc     *ipv4.PacketConn
	group  *net.UDPAddr
	ifi    *net.Interface
	buffer []byte
}

// Listen binds the group port and joins the group. Several receivers on
// one host may listen on the same port.
func Listen(cfg Config) (*MulticastReceiver, error) {
	cfg = cfg.withDefaults()
	group, err := cfg.groupAddr()
	if err != nil {
		return nil, err
	}
	ifi, err := cfg.iface()
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{Control: reusePort}
	conn, err := lc.ListenPacket(context.Background(), "udp4", net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, fmt.Errorf("bind %d: %w", cfg.Port, err)
	}
	pc := ipv4.NewPacketConn(conn)
	if err := pc.JoinGroup(ifi, &net.UDPAddr{IP: group.IP}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("join group %s: %w", group.IP, err)
	}
	return &MulticastReceiver{
		conn:   conn,
		pc:     pc,
		group:  group,
		ifi:    ifi,
		buffer: make([]byte, readBufferSize),
	}, nil
}

// Receive blocks for the next datagram. The read deadline is renewed every
// pollInterval so cancellation is observed promptly.
func (r *MulticastReceiver) Receive(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.conn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			return nil, &Error{Op: "receive", Err: err}
		}
		n, _, err := r.conn.ReadFrom(r.buffer)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			return nil, &Error{Op: "receive", Err: err}
		}
		out := make([]byte, n)
		copy(out, r.buffer[:n])
		return out, nil
	}
}

// Close leaves the group and releases the socket.
func (r *MulticastReceiver) Close() error {
	_ = r.pc.LeaveGroup(r.ifi, &net.UDPAddr{IP: r.group.IP})
	return r.conn.Close()
}
