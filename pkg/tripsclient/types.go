package tripsclient

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"nombre"`
	Role      string    `json:"rol"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Creator struct {
	ID    string `json:"id"`
	Name  string `json:"nombre,omitempty"`
	Email string `json:"email,omitempty"`
}

type Trip struct {
	ID           string     `json:"id"`
	Truck        string     `json:"camion"`
	Driver       string     `json:"conductor"`
	Origin       string     `json:"origen"`
	Destination  string     `json:"destino"`
	FuelType     string     `json:"combustible"`
	VolumeLiters int        `json:"cantidad_litros"`
	DepartureAt  time.Time  `json:"fecha_salida"`
	Status       string     `json:"estado"`
	DeliveredAt  *time.Time `json:"fecha_entrega,omitempty"`
	Notes        *string    `json:"observaciones,omitempty"`
	CreatedBy    Creator    `json:"creado_por"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CreateTripRequest struct {
	Truck        string    `json:"camion"`
	Driver       string    `json:"conductor"`
	Origin       string    `json:"origen"`
	Destination  string    `json:"destino"`
	FuelType     string    `json:"combustible"`
	VolumeLiters int       `json:"cantidad_litros"`
	DepartureAt  time.Time `json:"fecha_salida"`
	Status       string    `json:"estado,omitempty"`
	Notes        *string   `json:"observaciones,omitempty"`
}

// UpdateTripRequest only sends the fields that are set.
type UpdateTripRequest struct {
	Truck        *string    `json:"camion,omitempty"`
	Driver       *string    `json:"conductor,omitempty"`
	Origin       *string    `json:"origen,omitempty"`
	Destination  *string    `json:"destino,omitempty"`
	FuelType     *string    `json:"combustible,omitempty"`
	VolumeLiters *int       `json:"cantidad_litros,omitempty"`
	DepartureAt  *time.Time `json:"fecha_salida,omitempty"`
	Status       *string    `json:"estado,omitempty"`
	Notes        *string    `json:"observaciones,omitempty"`
}

// ListOptions maps onto the list query string; zero values are omitted.
type ListOptions struct {
	Page          int
	Limit         int
	Status        string
	FuelType      string
	Driver        string
	ExcludeStatus string
	SortBy        string
	SortOrder     string
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
}

type TripPage struct {
	Items      []Trip     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type Stats struct {
	Scheduled   int64 `json:"scheduled"`
	InTransit   int64 `json:"inTransit"`
	Delivered   int64 `json:"delivered"`
	Cancelled   int64 `json:"cancelled"`
	TotalVolume int64 `json:"totalVolume"`
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
