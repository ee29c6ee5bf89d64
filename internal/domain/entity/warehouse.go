package entity

import "time"

// Warehouse representa un almacén de la empresa, opcionalmente ligado a una sucursal.
// El stock siempre se resuelve por (producto, almacén).
type Warehouse struct {
	ID          string
	CompanyID   string
	BranchID    string // vacío = almacén general de la empresa
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
