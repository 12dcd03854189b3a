package sale

// Status is the lifecycle status of a registered sale
type Status string

const (
	StatusDelivered       Status = "entregado"
	StatusConsignment     Status = "consigna"
	StatusConsignmentPaid Status = "Consigna Pagada"
	StatusReturned        Status = "devuelta"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusDelivered, StatusConsignment, StatusConsignmentPaid, StatusReturned:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Origin is the channel a sale came through
type Origin string

const (
	OriginDoor         Origin = "Puerta"
	OriginWeb          Origin = "Web"
	OriginSocial       Origin = "Redes"
	OriginMercadoLibre Origin = "Mercado_libre"
)

// IsValid checks if the origin is known
func (o Origin) IsValid() bool {
	switch o {
	case OriginDoor, OriginWeb, OriginSocial, OriginMercadoLibre:
		return true
	}
	return false
}

// ConsumerType is the fiscal category of the buyer
type ConsumerType string

const (
	ConsumerRetail     ConsumerType = "minorista"
	ConsumerWholesale  ConsumerType = "mayorista"
	ConsumerFinal      ConsumerType = "consumidor_final"
	ConsumerMonotribut ConsumerType = "monotributo"
)

// IsValid checks if the consumer type is known
func (c ConsumerType) IsValid() bool {
	switch c {
	case ConsumerRetail, ConsumerWholesale, ConsumerFinal, ConsumerMonotribut:
		return true
	}
	return false
}
