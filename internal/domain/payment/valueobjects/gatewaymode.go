package valueobjects

import "fmt"

// GatewayMode selects which key pair the gateway uses.
type GatewayMode string

const (
	GatewayModeTest GatewayMode = "test"
	GatewayModeLive GatewayMode = "live"
)

func NewGatewayMode(mode string) (GatewayMode, error) {
	m := GatewayMode(mode)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid gateway mode: %s", mode)
	}
	return m, nil
}

// GatewayModeFromTestFlag maps the settings form's testmode checkbox.
func GatewayModeFromTestFlag(testMode bool) GatewayMode {
	if testMode {
		return GatewayModeTest
	}
	return GatewayModeLive
}

func (m GatewayMode) IsValid() bool {
	return m == GatewayModeTest || m == GatewayModeLive
}

func (m GatewayMode) IsTest() bool {
	return m == GatewayModeTest
}

func (m GatewayMode) IsLive() bool {
	return m == GatewayModeLive
}

func (m GatewayMode) String() string {
	return string(m)
}
