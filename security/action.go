package security

import "fmt"

// Action is a security action as stored in the DeclSecurity table. Zero is
// reserved and means "not a security attribute".
type Action uint8

const (
	ActionRequest                 Action = 1
	ActionDemand                  Action = 2
	ActionAssert                  Action = 3
	ActionDeny                    Action = 4
	ActionPermitOnly              Action = 5
	ActionLinkDemand              Action = 6
	ActionInheritanceDemand       Action = 7
	ActionRequestMinimum          Action = 8
	ActionRequestOptional         Action = 9
	ActionRequestRefuse           Action = 10
	ActionPrejitGrant             Action = 11
	ActionPrejitDeny              Action = 12
	ActionNonCasDemand            Action = 13
	ActionNonCasLinkDemand        Action = 14
	ActionNonCasInheritanceDemand Action = 15
)

var actionNames = [...]string{
	ActionRequest:                 "Request",
	ActionDemand:                  "Demand",
	ActionAssert:                  "Assert",
	ActionDeny:                    "Deny",
	ActionPermitOnly:              "PermitOnly",
	ActionLinkDemand:              "LinkDemand",
	ActionInheritanceDemand:       "InheritanceDemand",
	ActionRequestMinimum:          "RequestMinimum",
	ActionRequestOptional:         "RequestOptional",
	ActionRequestRefuse:           "RequestRefuse",
	ActionPrejitGrant:             "PrejitGrant",
	ActionPrejitDeny:              "PrejitDeny",
	ActionNonCasDemand:            "NonCasDemand",
	ActionNonCasLinkDemand:        "NonCasLinkDemand",
	ActionNonCasInheritanceDemand: "NonCasInheritanceDemand",
}

func (a Action) String() string {
	if int(a) < len(actionNames) && actionNames[a] != "" {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}
