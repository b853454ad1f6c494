package entity

type VehicleType string

const (
	VehicleBicycle    VehicleType = "bicycle"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleCar        VehicleType = "car"
	VehicleScooter    VehicleType = "scooter"
	VehicleEBike      VehicleType = "e-bike"
)

var VehicleTypes = []VehicleType{VehicleBicycle, VehicleMotorcycle, VehicleCar, VehicleScooter, VehicleEBike}

func (v VehicleType) Valid() bool {
	for _, t := range VehicleTypes {
		if v == t {
			return true
		}
	}
	return false
}
