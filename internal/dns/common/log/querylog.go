package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// StdoutPath makes the query log write to standard output instead of a file.
const StdoutPath = "/dev/stdout"

// QueryLogOptions describes the query log destination.
type QueryLogOptions struct {
	Path       string
	Format     string // "json" or "console"
	MaxSize    int    // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// QueryLogger is the append-only record of every question received. Each
// record is encoded into one line and handed to the sink in a single Write.
type QueryLogger struct {
	*zapLogger
	sink io.Closer
}

// NewQueryLogger opens the query log described by opts.
func NewQueryLogger(opts QueryLogOptions) (*QueryLogger, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("query log path is empty")
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.MessageKey = "msg"
	encCfg.LevelKey = "level"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch opts.Format {
	case "", "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unsupported query log format %q", opts.Format)
	}

	var (
		ws   zapcore.WriteSyncer
		sink io.Closer
	)
	if opts.Path == StdoutPath {
		ws = zapcore.Lock(os.Stdout)
		sink = nopCloser{}
	} else {
		lj := &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
			LocalTime:  true,
		}
		// lumberjack creates the file lazily; touch it now so a bad path fails at startup.
		if _, err := lj.Write(nil); err != nil {
			return nil, fmt.Errorf("open query log %s: %w", opts.Path, err)
		}
		ws = zapcore.AddSync(lj)
		sink = lj
	}

	core := zapcore.NewCore(enc, ws, zapcore.DebugLevel)
	return &QueryLogger{
		zapLogger: &zapLogger{base: zap.New(core)},
		sink:      sink,
	}, nil
}

// Close flushes and closes the underlying sink.
func (q *QueryLogger) Close() error {
	_ = q.base.Sync()
	return q.sink.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

var _ Logger = (*QueryLogger)(nil)
