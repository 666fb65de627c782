// Package ble implements the Bluetooth smart-cube adapter layer (C9): a
// vendor-agnostic scanner/connector facade plus one decoder per
// supported protocol (GAN, GoCube, Giiker, MoYu).
package ble

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

const discoveryInterval = 100 * time.Millisecond

// GANConfig supplies the pieces a GAN connection needs that this
// package cannot provide on its own: the MAC-keyed deriver, the packet
// decoder, and the GATT UUIDs to look for. Without one, discovered GAN
// devices are listed but refused at connect time.
type GANConfig struct {
	Deriver     KeyDeriver
	Decode      GANDecoder
	ServiceUUID string
	WriteUUID   string
	NotifyUUID  string
}

// Option configures a BluetoothCube at construction time.
type Option func(*BluetoothCube)

// WithGANConfig enables GAN connections.
func WithGANConfig(cfg GANConfig) Option {
	return func(b *BluetoothCube) { b.ganConfig = &cfg }
}

// WithAdapter overrides the default Bluetooth adapter, mainly useful on
// multi-adapter hosts.
func WithAdapter(adapter *bluetooth.Adapter) Option {
	return func(b *BluetoothCube) { b.adapter = adapter }
}

// BluetoothCube discovers nearby smart cubes and manages at most one
// connected device at a time. A background goroutine scans
// continuously, via a single-adapter callback-driven scan, until a
// connection is requested.
type BluetoothCube struct {
	adapter   *bluetooth.Adapter
	ganConfig *GANConfig

	mu         sync.Mutex
	state      State
	discovered map[string]AvailableDevice
	device     *bluetooth.Device
	driver     Driver
	err        error

	listeners      map[MoveListenerHandle]func(MoveEvent)
	nextListenerID uint64

	scanning atomic.Bool
	scanDone chan struct{}
	closed   atomic.Bool
}

// New starts background discovery immediately.
func New(opts ...Option) (*BluetoothCube, error) {
	b := &BluetoothCube{
		adapter:    bluetooth.DefaultAdapter,
		discovered: make(map[string]AvailableDevice),
		listeners:  make(map[MoveListenerHandle]func(MoveEvent)),
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.adapter.Enable(); err != nil {
		return nil, fmt.Errorf("ble: enable adapter: %w", err)
	}

	b.scanDone = make(chan struct{})
	go b.discoveryLoop()
	return b, nil
}

// Close stops background discovery permanently and disconnects any
// connected device. The BluetoothCube is not usable afterward.
func (b *BluetoothCube) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	b.stopScanning()
	if err := b.Disconnect(); err != nil && !errors.Is(err, ErrNotConnected) {
		return err
	}
	return nil
}

func (b *BluetoothCube) discoveryLoop() {
	defer close(b.scanDone)
	b.scanning.Store(true)
	defer b.scanning.Store(false)

	err := b.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		name := result.LocalName()
		vendor := vendorFromName(name)
		if name == "" {
			return
		}
		if vendor == VendorUnknown {
			// Candidate MoYu device: confirmed by GATT UUID at connect time.
			vendor = VendorMoYu
		}
		b.mu.Lock()
		b.discovered[result.Address.String()] = AvailableDevice{
			Address: result.Address.String(),
			Name:    name,
			Vendor:  vendor,
		}
		b.mu.Unlock()
	})
	if err != nil {
		b.mu.Lock()
		b.err = fmt.Errorf("ble: scan: %w", err)
		b.mu.Unlock()
	}
}

func (b *BluetoothCube) stopScanning() {
	if b.scanning.Load() {
		b.adapter.StopScan()
		<-b.scanDone
	}
}

func (b *BluetoothCube) checkForError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// State reports the facade's coarse connection lifecycle.
func (b *BluetoothCube) State() (State, error) {
	if err := b.checkForError(); err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, nil
}

// AvailableDevices lists devices discovered so far, classified by
// vendor. An entry is added or refreshed whenever its advertisement is
// seen; entries are not removed when a device stops advertising.
func (b *BluetoothCube) AvailableDevices() ([]AvailableDevice, error) {
	if err := b.checkForError(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]AvailableDevice, 0, len(b.discovered))
	for _, d := range b.discovered {
		out = append(out, d)
	}
	return out, nil
}

// Connect stops discovery, connects to address, and constructs the
// vendor-specific driver for it. It blocks until the connection
// (including any vendor handshake, e.g. GoCube's initial-state wait)
// completes or fails.
func (b *BluetoothCube) Connect(ctx context.Context, address bluetooth.Address) error {
	if err := b.checkForError(); err != nil {
		return err
	}

	b.mu.Lock()
	if b.state == StateConnected {
		b.mu.Unlock()
		return ErrAlreadyConnected
	}
	candidate, ok := b.discovered[address.String()]
	b.state = StateConnecting
	b.mu.Unlock()
	if !ok {
		b.setState(StateDiscovering)
		return ErrDeviceNotFound
	}

	b.stopScanning()

	type connectResult struct {
		device bluetooth.Device
		err    error
	}
	resultCh := make(chan connectResult, 1)
	go func() {
		device, err := b.adapter.Connect(address, bluetooth.ConnectionParams{})
		resultCh <- connectResult{device, err}
	}()

	var device bluetooth.Device
	select {
	case res := <-resultCh:
		if res.err != nil {
			b.setState(StateDiscovering)
			b.resumeScanning()
			return fmt.Errorf("ble: connect: %w", res.err)
		}
		device = res.device
	case <-ctx.Done():
		b.setState(StateDiscovering)
		b.resumeScanning()
		return ctx.Err()
	}

	driver, err := b.connectVendor(device, candidate)
	if err != nil {
		device.Disconnect()
		b.setState(StateDiscovering)
		b.resumeScanning()
		return err
	}

	b.mu.Lock()
	b.device = &device
	b.driver = driver
	b.state = StateConnected
	b.mu.Unlock()

	if driver.NeedsUpdate() {
		go b.pollLoop(driver)
	}
	return nil
}

func (b *BluetoothCube) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

func (b *BluetoothCube) pollLoop(driver Driver) {
	for {
		time.Sleep(10 * time.Millisecond)
		b.mu.Lock()
		stillConnected := b.driver == driver
		b.mu.Unlock()
		if !stillConnected {
			return
		}
		driver.Update()
	}
}

func (b *BluetoothCube) connectVendor(device bluetooth.Device, candidate AvailableDevice) (Driver, error) {
	switch candidate.Vendor {
	case VendorGoCube:
		return b.connectGoCube(device)
	case VendorGiiker:
		return b.connectGiiker(device)
	case VendorMoYu:
		return b.connectMoYu(device)
	case VendorGAN:
		return b.connectGAN(device, candidate)
	default:
		return nil, ErrUnknownVendor
	}
}

func (b *BluetoothCube) connectGoCube(device bluetooth.Device) (Driver, error) {
	services, err := device.DiscoverServices([]bluetooth.UUID{mustUUID(GoCubeServiceUUID)})
	if err != nil || len(services) == 0 {
		return nil, fmt.Errorf("ble: gocube service not found: %w", err)
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{mustUUID(GoCubeWriteUUID), mustUUID(GoCubeNotifyUUID)})
	if err != nil {
		return nil, fmt.Errorf("ble: gocube characteristics: %w", err)
	}
	var write, notify bluetooth.DeviceCharacteristic
	for _, c := range chars {
		switch c.UUID() {
		case mustUUID(GoCubeWriteUUID):
			write = c
		case mustUUID(GoCubeNotifyUUID):
			notify = c
		}
	}

	driver := NewGoCubeDriver(
		func(data []byte) error { _, err := write.WriteWithoutResponse(data); return err },
		func() error { return device.Disconnect() },
	)
	if err := notify.EnableNotifications(func(data []byte) {
		if moves := driver.HandleNotification(data); len(moves) > 0 {
			b.emitMoves(moves, driver.CubeState())
		}
	}); err != nil {
		return nil, fmt.Errorf("ble: gocube notifications: %w", err)
	}
	if err := driver.Connect(); err != nil {
		return nil, err
	}
	return driver, nil
}

func (b *BluetoothCube) connectGiiker(device bluetooth.Device) (Driver, error) {
	services, err := device.DiscoverServices(nil)
	if err != nil {
		return nil, fmt.Errorf("ble: giiker services: %w", err)
	}
	var moveData bluetooth.DeviceCharacteristic
	found := false
	for _, svc := range services {
		chars, err := svc.DiscoverCharacteristics([]bluetooth.UUID{mustUUID(GiikerMoveDataUUID)})
		if err != nil {
			continue
		}
		for _, c := range chars {
			moveData = c
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("ble: giiker move characteristic not found")
	}

	driver := NewGiikerDriver(func() error { return device.Disconnect() })
	if err := moveData.EnableNotifications(func(data []byte) {
		if moves := driver.HandleNotification(data); len(moves) > 0 {
			b.emitMoves(moves, driver.CubeState())
		}
	}); err != nil {
		return nil, fmt.Errorf("ble: giiker notifications: %w", err)
	}
	return driver, nil
}

func (b *BluetoothCube) connectMoYu(device bluetooth.Device) (Driver, error) {
	services, err := device.DiscoverServices(nil)
	if err != nil {
		return nil, fmt.Errorf("ble: moyu services: %w", err)
	}
	var turn, gyro, read bluetooth.DeviceCharacteristic
	var haveTurn, haveGyro, haveRead bool
	for _, svc := range services {
		chars, err := svc.DiscoverCharacteristics([]bluetooth.UUID{
			mustUUID(MoYuTurnUUID), mustUUID(MoYuGyroUUID), mustUUID(MoYuReadUUID),
		})
		if err != nil {
			continue
		}
		for _, c := range chars {
			switch c.UUID() {
			case mustUUID(MoYuTurnUUID):
				turn, haveTurn = c, true
			case mustUUID(MoYuGyroUUID):
				gyro, haveGyro = c, true
			case mustUUID(MoYuReadUUID):
				read, haveRead = c, true
			}
		}
	}
	if !haveTurn || !haveGyro || !haveRead {
		return nil, fmt.Errorf("ble: unrecognized MoYu cube version")
	}

	driver := NewMoYuDriver(func() error { return device.Disconnect() })
	if err := turn.EnableNotifications(func(data []byte) {
		if moves := driver.HandleTurnNotification(data); len(moves) > 0 {
			b.emitMoves(moves, driver.CubeState())
		}
	}); err != nil {
		return nil, fmt.Errorf("ble: moyu turn notifications: %w", err)
	}
	if err := gyro.EnableNotifications(func([]byte) {}); err != nil {
		return nil, fmt.Errorf("ble: moyu gyro notifications: %w", err)
	}
	if err := read.EnableNotifications(func([]byte) {}); err != nil {
		return nil, fmt.Errorf("ble: moyu read notifications: %w", err)
	}
	return driver, nil
}

func (b *BluetoothCube) connectGAN(device bluetooth.Device, candidate AvailableDevice) (Driver, error) {
	if b.ganConfig == nil {
		return nil, ErrGANKeyDeriverRequired
	}
	mac, err := macFromAddress(candidate.Address)
	if err != nil {
		return nil, err
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{mustUUID(b.ganConfig.ServiceUUID)})
	if err != nil || len(services) == 0 {
		return nil, fmt.Errorf("ble: gan service not found: %w", err)
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{
		mustUUID(b.ganConfig.WriteUUID), mustUUID(b.ganConfig.NotifyUUID),
	})
	if err != nil {
		return nil, fmt.Errorf("ble: gan characteristics: %w", err)
	}
	var notify bluetooth.DeviceCharacteristic
	for _, c := range chars {
		if c.UUID() == mustUUID(b.ganConfig.NotifyUUID) {
			notify = c
		}
	}

	driver, err := NewGANDriver(mac, b.ganConfig.Deriver, b.ganConfig.Decode, func() error { return device.Disconnect() })
	if err != nil {
		return nil, err
	}
	if err := notify.EnableNotifications(func(data []byte) {
		if moves := driver.HandleNotification(data); len(moves) > 0 {
			b.emitMoves(moves, driver.CubeState())
		}
	}); err != nil {
		return nil, fmt.Errorf("ble: gan notifications: %w", err)
	}
	return driver, nil
}

func (b *BluetoothCube) emitMoves(moves []cube.TimedMove, state *cube.Cube3x3x3) {
	b.mu.Lock()
	listeners := make([]func(MoveEvent), 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	evt := MoveEvent{Moves: moves, State: state}
	for _, fn := range listeners {
		fn(evt)
	}
}

// RegisterMoveListener subscribes fn to every future move event until
// unregistered.
func (b *BluetoothCube) RegisterMoveListener(fn func(MoveEvent)) MoveListenerHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextListenerID++
	handle := MoveListenerHandle(b.nextListenerID)
	b.listeners[handle] = fn
	return handle
}

// UnregisterMoveListener removes a previously registered listener.
func (b *BluetoothCube) UnregisterMoveListener(handle MoveListenerHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners, handle)
}

func (b *BluetoothCube) connectedDriver() (Driver, error) {
	if err := b.checkForError(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.driver == nil {
		return nil, ErrNotConnected
	}
	return b.driver, nil
}

// CubeState returns the connected cube's mirrored piece-format state.
func (b *BluetoothCube) CubeState() (*cube.Cube3x3x3, error) {
	driver, err := b.connectedDriver()
	if err != nil {
		return nil, err
	}
	return driver.CubeState(), nil
}

// BatteryPercentage returns the connected cube's last known battery
// level, if the vendor protocol reports one.
func (b *BluetoothCube) BatteryPercentage() (int, bool, error) {
	driver, err := b.connectedDriver()
	if err != nil {
		return 0, false, err
	}
	percent, ok := driver.BatteryPercentage()
	return percent, ok, nil
}

// BatteryCharging returns whether the connected cube is charging, if
// the vendor protocol reports it.
func (b *BluetoothCube) BatteryCharging() (bool, bool, error) {
	driver, err := b.connectedDriver()
	if err != nil {
		return false, false, err
	}
	charging, ok := driver.BatteryCharging()
	return charging, ok, nil
}

// ResetCubeState resets the mirrored state to solved, and asks the
// device to do likewise where the protocol supports it.
func (b *BluetoothCube) ResetCubeState() error {
	driver, err := b.connectedDriver()
	if err != nil {
		return err
	}
	driver.ResetCubeState()
	return nil
}

// Synced reports whether the connected driver still believes its
// mirrored state matches the device.
func (b *BluetoothCube) Synced() (bool, error) {
	driver, err := b.connectedDriver()
	if err != nil {
		return false, err
	}
	return driver.Synced(), nil
}

// Disconnect tears down the current connection, if any, and resumes
// background discovery.
func (b *BluetoothCube) Disconnect() error {
	b.mu.Lock()
	driver := b.driver
	b.driver = nil
	b.device = nil
	b.state = StateDiscovering
	b.mu.Unlock()

	if driver == nil {
		return ErrNotConnected
	}
	err := driver.Disconnect()
	b.resumeScanning()
	return err
}

// resumeScanning restarts background discovery unless the cube has
// been closed.
func (b *BluetoothCube) resumeScanning() {
	if b.closed.Load() {
		return
	}
	b.scanDone = make(chan struct{})
	go b.discoveryLoop()
}

func mustUUID(s string) bluetooth.UUID {
	var raw [16]byte
	clean := make([]byte, 0, 32)
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			clean = append(clean, s[i])
		}
	}
	for i := 0; i < 16; i++ {
		var b byte
		fmt.Sscanf(string(clean[i*2:i*2+2]), "%02x", &b)
		raw[i] = b
	}
	return bluetooth.NewUUID(raw)
}

func macFromAddress(address string) ([6]byte, error) {
	var mac [6]byte
	clean := make([]byte, 0, 12)
	for i := 0; i < len(address); i++ {
		if address[i] != ':' && address[i] != '-' {
			clean = append(clean, address[i])
		}
	}
	if len(clean) != 12 {
		return mac, fmt.Errorf("ble: malformed device address %q", address)
	}
	for i := 0; i < 6; i++ {
		var b byte
		if _, err := fmt.Sscanf(string(clean[i*2:i*2+2]), "%02x", &b); err != nil {
			return mac, fmt.Errorf("ble: malformed device address %q: %w", address, err)
		}
		mac[i] = b
	}
	return mac, nil
}
