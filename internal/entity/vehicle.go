package entity

type Vehicle struct {
	ID           string `json:"id"`
	OwnerID      string `json:"ownerId"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"licensePlate"`
	Color        string `json:"color"`
	Mileage      int    `json:"mileage"`
}

// VehiclePayload creates a vehicle. ID is optional.
type VehiclePayload struct {
	ID           string
	OwnerID      string
	Make         string
	Model        string
	Year         int
	LicensePlate string
	Color        string
	Mileage      int
}

func (p VehiclePayload) Validate() error {
	if p.Mileage < 0 {
		return invalid("vehicle mileage must not be negative")
	}

	return nil
}

// NewVehicle uses genID only when the payload does not carry its own id.
func NewVehicle(p VehiclePayload, genID string) Vehicle {
	return Vehicle{
		ID:           pickID(p.ID, genID),
		OwnerID:      p.OwnerID,
		Make:         p.Make,
		Model:        p.Model,
		Year:         p.Year,
		LicensePlate: p.LicensePlate,
		Color:        p.Color,
		Mileage:      p.Mileage,
	}
}

// VehiclePatch is a shallow update; nil fields are left alone. There is no ID
// field because ids never change.
type VehiclePatch struct {
	OwnerID      *string
	Make         *string
	Model        *string
	Year         *int
	LicensePlate *string
	Color        *string
	Mileage      *int
}

func (p VehiclePatch) Apply(v Vehicle) Vehicle {
	if p.OwnerID != nil {
		v.OwnerID = *p.OwnerID
	}

	if p.Make != nil {
		v.Make = *p.Make
	}

	if p.Model != nil {
		v.Model = *p.Model
	}

	if p.Year != nil {
		v.Year = *p.Year
	}

	if p.LicensePlate != nil {
		v.LicensePlate = *p.LicensePlate
	}

	if p.Color != nil {
		v.Color = *p.Color
	}

	if p.Mileage != nil {
		v.Mileage = *p.Mileage
	}

	return v
}

func pickID(given, generated string) string {
	if given != "" {
		return given
	}

	return generated
}
