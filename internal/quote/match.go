package quote

import "fmt"

// Cases has one handler per Data variant.
// Adding a variant to Data adds a method here, so every implementation
// stops compiling until it handles the new variant.
type Cases[T any] interface {
	SwedishApartment(SwedishApartment) T
	SwedishHouse(SwedishHouse) T
	NorwegianHomeContents(NorwegianHomeContents) T
	NorwegianTravel(NorwegianTravel) T
	DanishHomeContents(DanishHomeContents) T
	DanishAccident(DanishAccident) T
	DanishTravel(DanishTravel) T
}

// Match dispatches d to the handler for its variant.
// Variants are value types; a pointer variant is a programmer error and panics.
func Match[T any](d Data, c Cases[T]) T {
	switch v := d.(type) {
	case SwedishApartment:
		return c.SwedishApartment(v)
	case SwedishHouse:
		return c.SwedishHouse(v)
	case NorwegianHomeContents:
		return c.NorwegianHomeContents(v)
	case NorwegianTravel:
		return c.NorwegianTravel(v)
	case DanishHomeContents:
		return c.DanishHomeContents(v)
	case DanishAccident:
		return c.DanishAccident(v)
	case DanishTravel:
		return c.DanishTravel(v)
	}
	panic(fmt.Sprintf("quote: unhandled data variant %T", d))
}

// AllVariants returns a zero value of every variant.
// Used by dispatch tests to prove every variant is handled.
func AllVariants() []Data {
	return []Data{
		SwedishApartment{},
		SwedishHouse{},
		NorwegianHomeContents{},
		NorwegianTravel{},
		DanishHomeContents{},
		DanishAccident{},
		DanishTravel{},
	}
}
