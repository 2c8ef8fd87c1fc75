package ports

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"sync"
	"time"

	"github.com/filbar/swapper/logging"
	"go.bug.st/serial"
)

// DeviceReader is an open console producing lines until it is unplugged.
type DeviceReader interface {
	Channel() <-chan string
	Close() error
}

type DeviceOpener interface {
	Open(devicePath string) (DeviceReader, error)
}

type serialDeviceReader struct {
	reader io.Reader
	closer func()
	once   sync.Once
}

func (d *serialDeviceReader) Channel() <-chan string {
	return ReadFile(d.reader)
}

func (d *serialDeviceReader) Close() error {
	d.once.Do(d.closer)

	return nil
}

type SerialDeviceOpener struct{}

func (SerialDeviceOpener) Open(devicePath string) (DeviceReader, error) {
	r, closer, err := Open(devicePath)
	if err != nil {
		return nil, err
	}

	return &serialDeviceReader{reader: r, closer: closer}, nil
}

// MonitoringDeviceReader polls for keyboard consoles and reads every one that shows up,
// so halves can be unplugged and replugged while running.
type MonitoringDeviceReader struct {
	pathToLookup string

	devicesList map[string]DeviceReader
	lock        sync.RWMutex

	opener DeviceOpener
	lister func() ([]string, error)

	pollingInterval time.Duration
}

func DefaultMonitoringDeviceReader() *MonitoringDeviceReader {
	return NewMonitoringDeviceReader("/dev/", SerialDeviceOpener{})
}

func NewMonitoringDeviceReader(pathToLookup string, opener DeviceOpener) *MonitoringDeviceReader {
	return &MonitoringDeviceReader{
		pathToLookup:    pathToLookup,
		devicesList:     make(map[string]DeviceReader),
		lock:            sync.RWMutex{},
		opener:          opener,
		lister:          serial.GetPortsList,
		pollingInterval: 5 * time.Second,
	}
}

func (r *MonitoringDeviceReader) SetPollingInterval(d time.Duration) {
	r.pollingInterval = d
}

// SetLister replaces the serial port enumeration.
func (r *MonitoringDeviceReader) SetLister(lister func() ([]string, error)) {
	r.lister = lister
}

func (r *MonitoringDeviceReader) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for i, device := range r.devicesList {
		if err := device.Close(); err != nil {
			return fmt.Errorf("error closing device %s: %w", i, err)
		}
	}

	return nil
}

func (r *MonitoringDeviceReader) CloseDevice(devicePath string) error {
	slog.Info("Closing device", "path", devicePath)

	r.lock.Lock()
	defer r.lock.Unlock()

	if device, exists := r.devicesList[devicePath]; exists {
		if err := device.Close(); err != nil {
			return fmt.Errorf("error closing device %s: %w", devicePath, err)
		}

		delete(r.devicesList, devicePath)
		slog.Info("Device closed and removed from list", "path", devicePath)
	} else {
		slog.Info("Device not found in list", "path", devicePath)
	}

	return nil
}

// AddDevice opens devicePath and forwards its lines to out until the device goes away or
// ctx is done. Log records of the device carry its path.
func (r *MonitoringDeviceReader) AddDevice(ctx context.Context, devicePath string, out chan<- string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.devicesList[devicePath]; exists {
		slog.Debug("Device already exists, skipping", "path", devicePath)

		return nil
	}

	device, err := r.opener.Open(devicePath)
	if err != nil {
		return fmt.Errorf("error opening device %s: %w", devicePath, err)
	}

	r.devicesList[devicePath] = device

	go r.forward(logging.AppendCtx(ctx, slog.String("device", devicePath)), devicePath, device, out)

	return nil
}

func (r *MonitoringDeviceReader) forward(ctx context.Context, devicePath string, device DeviceReader, out chan<- string) {
	slog.InfoContext(ctx, "Device loop started")

	lines := device.Channel()

	defer func() {
		if err := r.CloseDevice(devicePath); err != nil {
			slog.ErrorContext(ctx, "Could not close device", "error", err)
		}

		// The reader may still hold a line; draining lets it see the closed port and exit.
		go func() {
			for range lines {
			}
		}()
	}()

	for line := range lines {
		select {
		case out <- line:
		case <-ctx.Done():
			slog.InfoContext(ctx, "Monitoring stopped, dropping device")

			return
		}
	}

	slog.InfoContext(ctx, "Device closed")
}

func (r *MonitoringDeviceReader) Devices() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	result := make([]string, 0, len(r.devicesList))
	for k := range r.devicesList {
		result = append(result, k)
	}

	return result
}

func (r *MonitoringDeviceReader) FindDevices() ([]string, error) {
	slog.Debug("Finding devices in path:", "pathToLookup", r.pathToLookup)

	serialDevices, err := r.lister()
	if err != nil {
		return nil, fmt.Errorf("could not get list of serial ports: %w", err)
	}

	newDevices := make(map[string]bool)

	for _, devicePath := range serialDevices {
		if r.shouldOpenDevice(devicePath) {
			newDevices[devicePath] = true
		}
	}

	entries, err := os.ReadDir(r.pathToLookup)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", r.pathToLookup, err)
	}

	for _, entry := range entries {
		shouldOpen, devicePath := r.shouldOpenFile(entry)
		if !shouldOpen {
			continue
		}

		newDevices[devicePath] = true
	}

	keys := make([]string, 0, len(newDevices))
	for k := range newDevices {
		keys = append(keys, k)
	}

	return keys, nil
}

// Channel starts polling and returns the merged lines of every attached device. Polling
// stops when ctx is done.
func (r *MonitoringDeviceReader) Channel(ctx context.Context) <-chan string {
	slog.Info("Starting monitoring", "path", r.pathToLookup)

	outputChan := make(chan string, 5)

	go func() {
		defer slog.Info("End monitoring", "path", r.pathToLookup)

		ticker := time.NewTicker(r.pollingInterval)
		defer ticker.Stop()

		for {
			devices, err := r.FindDevices()
			if err != nil {
				slog.Error("Error finding devices", "error", err)
			}

			for _, devicePath := range devices {
				slog.Info("Processing device", "path", devicePath)

				err := r.AddDevice(ctx, devicePath, outputChan)
				if err != nil {
					slog.Error("Could not add device", "path", devicePath, "error", err)
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return outputChan
}

func (r *MonitoringDeviceReader) shouldOpenFile(entry os.DirEntry) (bool, string) {
	if entry.IsDir() || entry.Type()&os.ModeDevice == 0 {
		return false, ""
	}

	devicePath := path.Join(r.pathToLookup, entry.Name())

	return r.shouldOpenDevice(devicePath), devicePath
}

func (r *MonitoringDeviceReader) shouldOpenDevice(devicePath string) bool {
	if !LooksLikeKeyboardConsole(devicePath) {
		return false
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	_, ok := r.devicesList[devicePath]

	return !ok
}
