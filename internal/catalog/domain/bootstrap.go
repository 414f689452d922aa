package domain

type BootstrapData struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string // generated when empty
}
