package transport

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/coreos/go-systemd/activation"
	"github.com/coreos/go-systemd/daemon"

	"github.com/haukened/rr-decoy/internal/dns/common/log"
	"github.com/haukened/rr-decoy/internal/dns/gateways/wire"
)

// ActivatedTransports wraps the sockets handed over by systemd socket
// activation. It returns nil when the process was not socket-activated.
func ActivatedTransports(codec wire.DNSCodec, logger log.Logger, opts Options) ([]ServerTransport, error) {
	files := activation.Files(true)
	if len(files) == 0 {
		return nil, nil
	}
	return wrapSocketFiles(files, codec, logger, opts)
}

// wrapSocketFiles turns each file into a TCP or UDP transport. The files are
// always closed. On error every socket wrapped so far is closed as well.
func wrapSocketFiles(files []*os.File, codec wire.DNSCodec, logger log.Logger, opts Options) ([]ServerTransport, error) {
	transports := make([]ServerTransport, 0, len(files))
	sockets := make([]io.Closer, 0, len(files))
	for i, file := range files {
		if ln, err := net.FileListener(file); err == nil {
			transports = append(transports, NewTCPTransportFromListener(ln, codec, logger, opts.TCPIdleTimeout))
			sockets = append(sockets, ln)
			logger.Info(map[string]any{
				"index":   i,
				"name":    file.Name(),
				"address": ln.Addr().String(),
			}, "Wiring systemd TCP socket")
		} else if pc, err := net.FilePacketConn(file); err == nil {
			transports = append(transports, NewUDPTransportFromConn(pc, codec, logger))
			sockets = append(sockets, pc)
			logger.Info(map[string]any{
				"index":   i,
				"name":    file.Name(),
				"address": pc.LocalAddr().String(),
			}, "Wiring systemd UDP socket")
		} else {
			for _, f := range files[i:] {
				_ = f.Close()
			}
			for _, sock := range sockets {
				_ = sock.Close()
			}
			return nil, fmt.Errorf("systemd socket #%d (%s) is neither a stream nor a datagram socket", i, file.Name())
		}
		// net.File* duplicate the descriptor
		_ = file.Close()
	}
	return transports, nil
}

// NotifyReady tells systemd the service is up. It is a no-op outside systemd.
func NotifyReady() (bool, error) {
	return daemon.SdNotify(false, "READY=1")
}
