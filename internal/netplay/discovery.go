package netplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AhmadAC/Fence-Game/internal/telemetry"
)

// Announcement is the discovery beacon a host broadcasts on the LAN.
type Announcement struct {
	Service string `json:"service"`
	HostID  string `json:"host_id"`
	TCPIP   string `json:"tcp_ip"`
	TCPPort int    `json:"tcp_port"`
}

// ErrNoHostFound is returned when the search window closes without a valid
// beacon.
var ErrNoHostFound = errors.New("netplay: no host found on the LAN")

// Announcer broadcasts the host's presence once per BroadcastInterval until
// its context is cancelled. The host id is random per process so a client
// on the same machine can tell its own beacons apart even when addresses
// are ambiguous.
type Announcer struct {
	id      string
	udpPort int
	tcpPort int
	log     *zap.SugaredLogger
	tel     *telemetry.Counters
}

func NewAnnouncer(tcpPort, udpPort int, tel *telemetry.Counters, logger *zap.SugaredLogger) *Announcer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Announcer{
		id:      uuid.NewString(),
		udpPort: udpPort,
		tcpPort: tcpPort,
		log:     logger,
		tel:     tel,
	}
}

// HostID returns the random per-process identity carried in each beacon.
func (a *Announcer) HostID() string { return a.id }

// Run broadcasts until ctx is done.
func (a *Announcer) Run(ctx context.Context) error {
	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{
		IP:   net.IPv4bcast,
		Port: a.udpPort,
	})
	if err != nil {
		return fmt.Errorf("netplay: open broadcast socket: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(Announcement{
		Service: ServiceTag,
		HostID:  a.id,
		TCPIP:   localIP(),
		TCPPort: a.tcpPort,
	})
	if err != nil {
		return fmt.Errorf("netplay: encode beacon: %w", err)
	}

	a.log.Infow("announcing on LAN", "udp_port", a.udpPort, "tcp_port", a.tcpPort, "host_id", a.id)
	ticker := time.NewTicker(BroadcastInterval)
	defer ticker.Stop()
	for {
		if _, err := conn.Write(payload); err != nil {
			a.log.Warnw("beacon send failed", "error", err)
		} else if a.tel != nil {
			a.tel.RecordDiscoveryBeacon()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Discover listens for host beacons and returns the first valid connect
// address. Beacons from this machine's own addresses or carrying selfID are
// skipped; an empty selfID disables the id check.
func Discover(ctx context.Context, udpPort int, selfID string, logger *zap.SugaredLogger) (string, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: udpPort})
	if err != nil {
		return "", fmt.Errorf("netplay: listen for beacons: %w", err)
	}
	defer conn.Close()

	own := ownAddresses()
	deadline := time.Now().Add(SearchTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	logger.Infow("searching for a host", "udp_port", udpPort, "timeout", SearchTimeout)

	buf := make([]byte, readChunkSize)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return "", fmt.Errorf("netplay: beacon read: %w", err)
		}

		ann, ok := parseAnnouncement(buf[:n])
		if !ok {
			continue
		}
		if selfID != "" && ann.HostID == selfID {
			continue
		}
		if own[addr.IP.String()] {
			continue
		}

		target := net.JoinHostPort(ann.TCPIP, fmt.Sprintf("%d", ann.TCPPort))
		logger.Infow("host found", "addr", target, "host_id", ann.HostID, "from", addr.IP)
		return target, nil
	}
	return "", ErrNoHostFound
}

// parseAnnouncement decodes and validates one beacon datagram.
func parseAnnouncement(data []byte) (Announcement, bool) {
	var ann Announcement
	if err := json.Unmarshal(data, &ann); err != nil {
		return Announcement{}, false
	}
	if ann.Service != ServiceTag || ann.TCPIP == "" || ann.TCPPort <= 0 || ann.TCPPort > 65535 {
		return Announcement{}, false
	}
	return ann, true
}

// localIP finds the address this machine would use to reach the LAN. The
// dial never sends anything; it only forces a route lookup.
func localIP() string {
	conn, err := net.Dial("udp4", "10.255.255.255:1")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}

// ownAddresses collects this machine's interface addresses for the
// ignore-own-broadcast check.
func ownAddresses() map[string]bool {
	out := map[string]bool{}
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return out
	}
	for _, a := range addrs {
		if ipn, ok := a.(*net.IPNet); ok {
			out[ipn.IP.String()] = true
		}
	}
	return out
}
