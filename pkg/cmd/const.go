package cmd

const (
	RootCmdName  = "carlot"
	RootCmdShort = "Car listing service"
	RootCmdLong  = `carlot stores car listings and serves them over a JSON API.

Listings can be created, listed page by page, updated and soft-deleted.
The convert and seed commands prepare data from a CSV export.`

	ServeCmdName  = "serve"
	ServeCmdShort = "Start the HTTP API"
	ServeCmdLong  = `Start the HTTP API on the configured address.

Storage is selected with storage.driver (memory, mongo or postgres).
The server shuts down gracefully on SIGINT or SIGTERM.`

	ConvertCmdName  = "convert"
	ConvertCmdShort = "Convert a CSV car export to JSON"
	ConvertCmdLong  = `Read a CSV car export and write the first rows as a JSON array of
listings. Columns are located by header name. An unparsable MSRP is written
as price 0.`

	SeedCmdName  = "seed"
	SeedCmdShort = "Load converted listings into storage"
	SeedCmdLong  = `Insert every listing from a JSON file produced by convert into the
configured storage. Records are inserted as they are; they are not validated.`
)

const (
	configFlag  = "config"
	logLevel    = "log-level"
	logFormat   = "log-format"
	addrFlag    = "addr"
	driverFlag  = "storage"
	inputFlag   = "input"
	outputFlag  = "output"
	limitFlag   = "limit"
	defaultSeed = "./data/cars.json"
)
