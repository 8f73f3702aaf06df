package dal

var transmissionTypes = newSet(
	"MANUAL",
	"AUTOMATIC",
	"AUTOMATED_MANUAL",
	"DIRECT_DRIVE",
	"UNKNOWN",
)

var styles = newSet(
	"2dr Hatchback",
	"2dr SUV",
	"4dr Hatchback",
	"4dr SUV",
	"Cargo Minivan",
	"Cargo Van",
	"Convertible",
	"Convertible SUV",
	"Coupe",
	"Crew Cab Pickup",
	"Passenger Minivan",
	"Passenger Van",
	"Regular Cab Pickup",
	"Sedan",
	"Wagon",
)

var makes = newSet(
	"Acura",
	"Aston Martin",
	"Audi",
	"BMW",
	"Bentley",
	"Buick",
	"Cadillac",
	"Chevrolet",
	"Chrysler",
	"Dodge",
	"FIAT",
	"Ferrari",
	"Ford",
	"GMC",
	"HUMMER",
	"Honda",
	"Hyundai",
	"Infiniti",
	"Kia",
	"Lamborghini",
	"Land Rover",
	"Lexus",
	"Lincoln",
	"Lotus",
	"Maserati",
	"Maybach",
	"Mazda",
	"Mercedes-Benz",
	"Mitsubishi",
	"Nissan",
	"Oldsmobile",
	"Plymouth",
	"Pontiac",
	"Porsche",
	"Rolls-Royce",
	"Saab",
	"Scion",
	"Subaru",
	"Suzuki",
	"Tesla",
	"Toyota",
	"Volkswagen",
	"Volvo",
)

type set map[string]struct{}

func newSet(values ...string) set {
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}

// IsKnownMake reports whether name is an accepted manufacturer. The match is
// exact and case-sensitive.
func IsKnownMake(name string) bool { return makes.has(name) }

// IsKnownStyle reports whether style is an accepted body style.
func IsKnownStyle(style string) bool { return styles.has(style) }

// IsKnownTransmission reports whether t is an accepted transmission type.
func IsKnownTransmission(t string) bool { return transmissionTypes.has(t) }
