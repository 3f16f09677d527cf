package hardware

import (
	"fmt"
	"os"
)

func ReadAdcValue(device string, channel int) (int, error) {
	path := fmt.Sprintf("/sys/bus/iio/devices/%s/in_voltage%d_raw", device, channel)
	data, err := os.ReadFile(path)
	if err != nil {
		return -1, fmt.Errorf("failed reading %s: %w", path, err)
	}

	var value int
	if _, err := fmt.Sscanf(string(data), "%d", &value); err != nil {
		return -1, fmt.Errorf("failed parsing ADC value: %w", err)
	}
	return value, nil
}
