package hardware

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"motor-controller/internal/logger"
)

// LinuxHardwareIO drives the controller's peripherals on a Linux board:
// indicator LEDs and the direction switch through the GPIO character device,
// the command potentiometer through the IIO sysfs ADC, and the actuation
// duty cycle through the sysfs PWM export.
type LinuxHardwareIO struct {
	logger    *logger.Logger
	chip      *gpiocdev.Chip
	leds      map[string]*gpiocdev.Line
	dirSwitch *gpiocdev.Line
	pwmPeriod int64
	mu        sync.RWMutex
}

func NewLinuxHardwareIO(l *logger.Logger) *LinuxHardwareIO {
	return &LinuxHardwareIO{
		logger: l.WithTag("HardwareIO"),
		leds:   make(map[string]*gpiocdev.Line),
	}
}

func (io *LinuxHardwareIO) Initialize() error {
	io.logger.Infof("Initializing hardware IO")

	chip, err := gpiocdev.NewChip(GpioChip)
	if err != nil {
		return fmt.Errorf("failed to open GPIO chip %s: %w", GpioChip, err)
	}
	io.chip = chip

	for name, offset := range LedMappings {
		line, err := chip.RequestLine(offset,
			gpiocdev.AsOutput(0),
			gpiocdev.WithConsumer("motor-controller"))
		if err != nil {
			return fmt.Errorf("failed to request LED line %d: %w", offset, err)
		}
		io.leds[name] = line
		io.logger.Infof("Configured DO %s: line=%d", name, offset)
	}

	dirSwitch, err := chip.RequestLine(DirSwitchLine,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithConsumer("motor-controller"))
	if err != nil {
		return fmt.Errorf("failed to request direction switch line %d: %w", DirSwitchLine, err)
	}
	io.dirSwitch = dirSwitch
	io.logger.Infof("Configured DI direction_switch: line=%d", DirSwitchLine)

	period, err := readSysfsInt(PwmDir + "/period")
	if err != nil {
		return fmt.Errorf("failed to read PWM period: %w", err)
	}
	io.pwmPeriod = period
	io.logger.Infof("PWM period: %dns", period)

	return nil
}

// ReadDirectionSwitch samples the direction switch once. The line is pulled
// up, so a closed switch reads low; true means "switch open".
func (io *LinuxHardwareIO) ReadDirectionSwitch() (bool, error) {
	io.mu.RLock()
	line := io.dirSwitch
	io.mu.RUnlock()

	if line == nil {
		return false, fmt.Errorf("direction switch not initialized")
	}
	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("failed to read direction switch: %w", err)
	}
	return v != 0, nil
}

// ReadCommandRaw samples the command potentiometer from the IIO ADC.
// The converter is 12-bit; values above the ADC range are clipped.
func (io *LinuxHardwareIO) ReadCommandRaw() (uint16, error) {
	value, err := ReadAdcValue(AdcDevice, AdcChannel)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		value = 0
	}
	if value > 0x0FFF {
		value = 0x0FFF
	}
	return uint16(value), nil
}

func (io *LinuxHardwareIO) WriteDigitalOutput(channel string, value bool) error {
	io.mu.RLock()
	line, ok := io.leds[channel]
	io.mu.RUnlock()

	if !ok {
		return fmt.Errorf("unknown digital output channel: %s", channel)
	}

	val := 0
	if value {
		val = 1
	}
	if err := line.SetValue(val); err != nil {
		return fmt.Errorf("failed to set DO %s=%v: %w", channel, value, err)
	}
	return nil
}

// SetDuty maps an 8-bit modulation index onto the PWM duty cycle.
func (io *LinuxHardwareIO) SetDuty(level uint8) error {
	io.mu.RLock()
	period := io.pwmPeriod
	io.mu.RUnlock()

	if period == 0 {
		return fmt.Errorf("PWM not initialized")
	}
	duty := period * int64(level) / 255
	if err := os.WriteFile(PwmDir+"/duty_cycle", []byte(strconv.FormatInt(duty, 10)), 0644); err != nil {
		return fmt.Errorf("failed to set PWM duty: %w", err)
	}
	return nil
}

func (io *LinuxHardwareIO) Cleanup() {
	io.mu.Lock()
	defer io.mu.Unlock()

	io.logger.Infof("Cleaning up hardware resources")

	for name, line := range io.leds {
		line.SetValue(0)
		line.Close()
		io.logger.Debugf("Closed GPIO line for %s", name)
	}
	if io.dirSwitch != nil {
		io.dirSwitch.Close()
	}
	if io.chip != nil {
		io.chip.Close()
	}

	io.logger.Infof("Hardware cleanup complete")
}

func readSysfsInt(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
}
