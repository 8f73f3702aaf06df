package store

// Accepted reference values, mirroring pkg/carlot/dal/reference.go, used to
// generate valid fake cars.

var referenceMakes = []string{
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
}

var referenceStyles = []string{
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
}

var referenceTransmissionTypes = []string{
	"MANUAL",
	"AUTOMATIC",
	"AUTOMATED_MANUAL",
	"DIRECT_DRIVE",
	"UNKNOWN",
}
