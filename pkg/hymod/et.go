package hymod

// ET computes the evapotranspiration loss for a step from the soil moisture
// left after the saturation-excess split. params is passed through from the
// caller untouched.
type ET interface {
	Loss(soilMoisture float64, params any) float64
}

// ETFunc adapts an ordinary function to the ET interface
type ETFunc func(soilMoisture float64, params any) float64

// Loss calls f
func (f ETFunc) Loss(soilMoisture float64, params any) float64 {
	return f(soilMoisture, params)
}

// ZeroET never removes water. It is the default collaborator.
var ZeroET ET = ETFunc(func(float64, any) float64 { return 0 })
