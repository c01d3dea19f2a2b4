package prediction

import "github.com/kerhervel/parkplan/core/model"

// MockEngine returns deterministic curves for tests.
type MockEngine struct {
	Curves map[string]model.WaitCurve
}

// Curve implements Engine.
func (m MockEngine) Curve(rideID string) (model.WaitCurve, bool) {
	c, ok := m.Curves[rideID]
	return c, ok
}
