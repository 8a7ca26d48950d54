package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed topology.yaml
var defaultTopology []byte

var ErrInvalidTopology = errors.New("cấu hình topology không hợp lệ")

type SlotConfig struct {
	ID               string `yaml:"id"`
	Mall             string `yaml:"mall"`
	Level            int    `yaml:"level"`
	Number           int    `yaml:"number"`
	ReservedDisabled bool   `yaml:"reserved_disabled"`
	ReservedElderly  bool   `yaml:"reserved_elderly"`
}

// LocalSensorConfig: chân GPIO của cảm biến và LED (nếu có) cho một slot.
type LocalSensorConfig struct {
	Slot string `yaml:"slot"`
	Trig int    `yaml:"trig"`
	Echo int    `yaml:"echo"`
	LED  *int   `yaml:"led"`
}

type RemoteSensorConfig struct {
	Controller string   `yaml:"controller"`
	Slots      []string `yaml:"slots"`
	LEDs       []string `yaml:"leds"`
}

type Topology struct {
	Slots         []SlotConfig        `yaml:"slots"`
	LocalSensors  []LocalSensorConfig `yaml:"local_sensors"`
	RemoteSensors RemoteSensorConfig  `yaml:"remote_sensors"`
}

// LoadTopology đọc file YAML nếu path khác rỗng, ngược lại dùng topology mặc định.
func LoadTopology(path string) (*Topology, error) {
	data := defaultTopology
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("lỗi đọc file topology %s: %w", path, err)
		}
		data = b
	}
	return ParseTopology(data)
}

func ParseTopology(data []byte) (*Topology, error) {
	var t Topology
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTopology, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Topology) Validate() error {
	if len(t.Slots) == 0 {
		return fmt.Errorf("%w: không có slot nào", ErrInvalidTopology)
	}
	known := make(map[string]bool, len(t.Slots))
	for _, s := range t.Slots {
		if s.ID == "" {
			return fmt.Errorf("%w: slot thiếu id", ErrInvalidTopology)
		}
		if known[s.ID] {
			return fmt.Errorf("%w: slot '%s' bị trùng", ErrInvalidTopology, s.ID)
		}
		known[s.ID] = true
	}

	owner := make(map[string]string)
	for _, ls := range t.LocalSensors {
		if !known[ls.Slot] {
			return fmt.Errorf("%w: local sensor trỏ tới slot lạ '%s'", ErrInvalidTopology, ls.Slot)
		}
		if _, dup := owner[ls.Slot]; dup {
			return fmt.Errorf("%w: local sensor cho '%s' bị trùng", ErrInvalidTopology, ls.Slot)
		}
		owner[ls.Slot] = "local"
	}
	for _, id := range t.RemoteSensors.Slots {
		if !known[id] {
			return fmt.Errorf("%w: remote sensor trỏ tới slot lạ '%s'", ErrInvalidTopology, id)
		}
		// Mỗi slot chỉ thuộc về một producer
		if o, dup := owner[id]; dup {
			return fmt.Errorf("%w: slot '%s' đã thuộc producer %s", ErrInvalidTopology, id, o)
		}
		owner[id] = "remote"
	}
	for _, id := range t.RemoteSensors.LEDs {
		if !known[id] {
			return fmt.Errorf("%w: LED trỏ tới slot lạ '%s'", ErrInvalidTopology, id)
		}
	}
	return nil
}

func (t *Topology) LocalSlotIDs() []string {
	ids := make([]string, 0, len(t.LocalSensors))
	for _, ls := range t.LocalSensors {
		ids = append(ids, ls.Slot)
	}
	return ids
}

// LocalLEDPins trả về slot -> chân LED cho các slot local có đèn.
func (t *Topology) LocalLEDPins() map[string]int {
	pins := make(map[string]int)
	for _, ls := range t.LocalSensors {
		if ls.LED != nil {
			pins[ls.Slot] = *ls.LED
		}
	}
	return pins
}
