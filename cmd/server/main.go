// Server is the directory's executable. It serves the HTTP API and
// manages the database schema.
//
// Usage:
//
//	server serve
//	server migrate up|down|status
//
// Configuration comes from the environment (and an optional .env file);
// see internal/config.
package main

func main() {
	Execute()
}
