package ports

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"go.bug.st/serial"
)

// BaudRate of the keyboard console. USB CDC ignores it but serial.Open requires one.
const BaudRate = 9600

// ReadTimeout bounds a single read from the console; keyboards are idle for long stretches.
const ReadTimeout = 10 * time.Hour

func Open(path string) (r io.Reader, closer func(), err error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: BaudRate,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not open port %s: %w", path, err)
	}

	c := func() {
		if err := port.Close(); err != nil {
			slog.Error("could not close port", "path", path, "error", err)
		}
	}

	if err := port.SetReadTimeout(ReadTimeout); err != nil {
		c()

		return nil, nil, fmt.Errorf("could not set read timeout on %s: %w", path, err)
	}

	return port, c, nil
}

// ReadFile streams r line by line. The channel is closed when r is exhausted.
func ReadFile(r io.Reader) <-chan string {
	ch := make(chan string)

	go func() {
		defer close(ch)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			ch <- scanner.Text()
		}

		if err := scanner.Err(); err != nil {
			slog.Error("reading stopped", "error", err)
		}
	}()

	return ch
}

// ReadTwoFiles reads both halves of a split keyboard at the same time line-by-line. The
// channel is closed once both readers are exhausted.
func ReadTwoFiles(f1, f2 io.Reader) <-chan string {
	return merge(ReadFile(f1), ReadFile(f2))
}

func merge(inputs ...<-chan string) <-chan string {
	out := make(chan string)

	var wg sync.WaitGroup

	wg.Add(len(inputs))

	for _, in := range inputs {
		go func() {
			defer wg.Done()

			for line := range in {
				out <- line
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// OpenFiles opens one console per keyboard half and merges their lines.
func OpenFiles(fnames ...string) (<-chan string, func(), error) {
	closers := make([]func(), 0, len(fnames))
	closer := func() {
		for _, c := range closers {
			c()
		}
	}

	channels := make([]<-chan string, 0, len(fnames))

	for i, fname := range fnames {
		reader, c, err := Open(fname)
		if err != nil {
			closer()

			return nil, func() {}, fmt.Errorf("could not open port %d: %w", i+1, err)
		}

		closers = append(closers, c)
		channels = append(channels, ReadFile(reader))
	}

	return merge(channels...), closer, nil
}

var consolePattern = regexp.MustCompile(`^/dev/(tty\.usbmodem[0-9A-Za-z]+|ttyACM[0-9]+|cu\.usbmodem[0-9A-Za-z]+)$`)

// LooksLikeKeyboardConsole reports whether path is a USB CDC device such as a keyboard
// console.
func LooksLikeKeyboardConsole(path string) bool {
	return consolePattern.MatchString(path)
}

func GetAvailableDevices() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("could not get list of serial ports: %w", err)
	}

	result := make([]string, 0)

	for _, n := range names {
		if LooksLikeKeyboardConsole(n) {
			result = append(result, n)
		}
	}

	return result, nil
}
