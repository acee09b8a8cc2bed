package config

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// appID scopes the protected machine ID to this application.
const appID = "canclock"

// nodeIDLen is the length of the node name derived from the machine ID.
const nodeIDLen = 12

// MachineID derives a stable node name from the machine ID, empty when the
// machine ID is unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.V(2).Infof("machine id unavailable: %v", err)
		return ""
	}
	if len(id) > nodeIDLen {
		id = id[:nodeIDLen]
	}
	return id
}
