package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/marumaru-synth/marumaru/src/analyzer"
	"github.com/marumaru-synth/marumaru/src/audio"
	"github.com/marumaru-synth/marumaru/src/host"
	"github.com/marumaru-synth/marumaru/src/wavfile"
	"golang.org/x/sync/errgroup"
)

var (
	sockFileName = flag.String("sock", "/tmp/marumaru.sock", "unix socket path")
	presetDir    = flag.String("presets", "presets", "preset directory")
	configPath   = flag.String("config", "", "analyzer config JSON")
	sampleRate   = flag.Int("sr", audio.DefaultSampleRate, "output sample rate")
	initialTable = flag.String("load", "", "section file to load at startup")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())
	logger := log.Default()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := analyzer.DefaultConfig()
	if *configPath != "" {
		c, err := analyzer.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("error: %v\n", err)
		}
		config = c
	}
	an := analyzer.New(analyzer.WithConfig(config), analyzer.WithLogger(logger))

	engine := audio.NewEngine(*sampleRate, audio.WithLogger(logger), audio.WithPresetDir(*presetDir))
	if *initialTable != "" {
		if err := engine.LoadFile(*initialTable); err != nil {
			log.Fatalf("error: %v\n", err)
		}
	}
	player, err := host.NewPlayer(engine, *sampleRate, audio.ChannelNum, audio.BitDepthInBytes, audio.BufferSizeInBytes, logger)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer player.Close()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()
	err = withIPCConnection(ctx, *sockFileName, func(conn net.Conn) error {
		s := newSession(conn, engine, an)
		commandCh := make(chan []string, 256)
		ctx, cancelConn := context.WithCancel(ctx)
		defer cancelConn()
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			<-ctx.Done()
			// unblock receiveCommands
			return conn.SetReadDeadline(time.Now())
		})
		g.Go(func() error {
			return player.Start(ctx)
		})
		g.Go(func() error {
			return host.ForwardMidi(ctx, host.ListenToMidiIn(ctx, logger), engine)
		})
		g.Go(func() error {
			defer cancelConn()
			defer close(commandCh)
			return receiveCommands(ctx, conn, commandCh)
		})
		g.Go(func() error {
			s.processCommands(commandCh)
			return nil
		})
		g.Go(func() error {
			s.runAnalyses()
			return nil
		})
		g.Go(func() error {
			return s.sendReports(ctx)
		})
		return g.Wait()
	})
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func withIPCConnection(ctx context.Context, sockFileName string, f func(net.Conn) error) error {
	os.Remove(sockFileName)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", sockFileName)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		if err := listener.Close(); err != nil {
			log.Printf("error while closing listener: %v", err)
		}
		os.Remove(sockFileName)
	}()
	log.Printf("start listening...\n")
	conn, err := listener.Accept()
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	return f(conn)
}

func receiveCommands(ctx context.Context, r io.Reader, commandCh chan<- []string) error {
	reader := bufio.NewReader(r)
	var line []byte
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			return nil
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			log.Println("receiveCommands() ended.")
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		command, err := parseCommand(string(line))
		if err != nil {
			return err
		}
		log.Printf("received: %s\n", string(line))
		line = []byte{}
		if len(command) == 0 {
			continue
		}
		select {
		case commandCh <- command:
		case <-ctx.Done():
			return nil
		}
	}
}

func parseCommand(line string) ([]string, error) {
	items := strings.Fields(line)
	for i, item := range items {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		items[i] = escaped
	}
	return items, nil
}

const analysisQueueSize = 16

// session serves one IPC connection.
// Analyses run on their own worker so note commands are never held up.
type session struct {
	conn     io.Writer
	engine   *audio.Engine
	analyzer *analyzer.Analyzer
	analyses chan []string
}

func newSession(conn io.Writer, engine *audio.Engine, an *analyzer.Analyzer) *session {
	return &session{
		conn:     conn,
		engine:   engine,
		analyzer: an,
		analyses: make(chan []string, analysisQueueSize),
	}
}

// processCommands closes the analysis queue when commandCh is drained.
func (s *session) processCommands(commandCh <-chan []string) {
	defer close(s.analyses)
	for command := range commandCh {
		var err error
		switch command[0] {
		case "analyze":
			select {
			case s.analyses <- command[1:]:
			default:
				err = fmt.Errorf("analysis queue is full")
			}
		case "presets":
			var names []string
			names, err = s.engine.Presets()
			if err == nil {
				s.send("presets " + strings.Join(names, " "))
			}
		default:
			err = s.engine.Update(command)
		}
		if err != nil {
			s.sendError(err)
		}
	}
	log.Println("processCommands() ended.")
}

func (s *session) runAnalyses() {
	for args := range s.analyses {
		if err := s.analyze(args); err != nil {
			s.sendError(err)
		}
	}
	log.Println("runAnalyses() ended.")
}

func (s *session) sendError(err error) {
	log.Printf("error: %v\n", err)
	s.send("error " + url.QueryEscape(err.Error()))
}

// analyze handles "analyze <path> [core_end] [release_start]".
func (s *session) analyze(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing path")
	}
	coreEnd, releaseStart := 0.2, 0.8
	var err error
	if len(args) > 1 {
		if coreEnd, err = strconv.ParseFloat(args[1], 64); err != nil {
			return err
		}
	}
	if len(args) > 2 {
		if releaseStart, err = strconv.ParseFloat(args[2], 64); err != nil {
			return err
		}
	}
	samples, sr, err := wavfile.Read(args[0])
	if err != nil {
		return err
	}
	result, err := s.analyzer.Analyze(samples, sr, coreEnd, releaseStart)
	if err != nil {
		return err
	}
	s.engine.Load(result.Sections())
	result.Release()
	s.send(fmt.Sprintf("analyzed %s %.3f %.3f", result.Mode, result.Periodicity, result.Quality.Correlation))
	return nil
}

func (s *session) send(line string) {
	if _, err := s.conn.Write([]byte(line + "\n")); err != nil {
		log.Printf("error while sending: %v", err)
	}
}

func (s *session) sendReports(ctx context.Context) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() ended.")
			return nil
		case <-t.C:
			var b strings.Builder
			b.WriteString("fft")
			for _, value := range s.engine.Spectrum() {
				b.WriteByte(' ')
				b.WriteString(strconv.FormatFloat(value, 'f', 6, 64))
			}
			s.send(b.String())
		}
	}
}
