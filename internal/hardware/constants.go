package hardware

const (
	GpioChip = "gpiochip0"

	// Direction switch input line, pulled up externally: closed reads low.
	DirSwitchLine = 5

	AdcDevice  = "iio:device0"
	AdcChannel = 0

	PwmDir = "/sys/class/pwm/pwmchip0/pwm0"
)

// Indicator output lines.
var LedMappings = map[string]int{
	"led_yellow": 2,
	"led_green":  3,
	"led_red":    4,
}
