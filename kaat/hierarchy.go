package kaat

import (
	"strings"

	"github.com/move-sure/ss-transport-sub002/models"
)

// HierarchyIndex resolves a free-text carrier identity (GST number or name)
// to the owning transport admin. It is an immutable snapshot: rebuild it from
// fresh master data on any change notification instead of mutating it.
type HierarchyIndex struct {
	byGST  map[string]string
	byName map[string]string
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// BuildHierarchyIndex populates the lookup tables from every admin's own
// identity and from each owned carrier's identity, so either resolves to the
// same parent label.
func BuildHierarchyIndex(admins []*models.AdminGroup) *HierarchyIndex {
	ix := &HierarchyIndex{
		byGST:  make(map[string]string),
		byName: make(map[string]string),
	}
	for _, a := range admins {
		if a.GSTNo != nil {
			if k := normKey(*a.GSTNo); k != "" {
				ix.byGST[k] = a.AdminName
			}
		}
		if k := normKey(a.AdminName); k != "" {
			ix.byName[k] = a.AdminName
		}
		for i := range a.Carriers {
			c := &a.Carriers[i]
			if c.GSTNo != nil {
				if k := normKey(*c.GSTNo); k != "" {
					ix.byGST[k] = a.AdminName
				}
			}
			if k := normKey(c.TransportName); k != "" {
				ix.byName[k] = a.AdminName
			}
		}
	}
	return ix
}

// Resolve looks up an admin name for a consignment's carrier identity. GST
// wins over name; the first non-empty match decides. A miss leaves the
// consignment unattributed.
func (ix *HierarchyIndex) Resolve(gstNo, name string) (string, bool) {
	if k := normKey(gstNo); k != "" {
		if admin, ok := ix.byGST[k]; ok {
			return admin, true
		}
	}
	if k := normKey(name); k != "" {
		if admin, ok := ix.byName[k]; ok {
			return admin, true
		}
	}
	return "", false
}
