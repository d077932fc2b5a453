package domain

import "fmt"

// Foundation is a deployed platform instance reachable through its Ops Manager
type Foundation struct {
	Name     string
	Target   string
	Username string
	Password string
}

func (f Foundation) String() string {
	return fmt.Sprintf("%s@%s", f.Name, f.Target)
}
