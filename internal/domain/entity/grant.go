package entity

import "time"

// Almacenes con puntos de entrada privilegiados.
const (
	StoreCatalog = "catalog"
	StoreLedger  = "ledger"
)

// ValidStore informa si s es un almacén conocido.
func ValidStore(s string) bool {
	return s == StoreCatalog || s == StoreLedger
}

// Grant autoriza a Caller a invocar los puntos de entrada privilegiados de Store.
// La ausencia de un grant siempre deniega.
type Grant struct {
	Store     string
	Caller    string
	GrantedBy string
	CreatedAt time.Time
}
