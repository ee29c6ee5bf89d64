package entity

import "time"

// Customer socio o cliente del gimnasio al que se le vende y se le da de alta en planes.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	RFC       string // opcional, sólo para facturación posterior
	Email     string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
