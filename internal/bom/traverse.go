package bom

import (
	"tessera/internal/logging"
	"tessera/internal/model"
	"tessera/internal/store"
	"tessera/internal/tesseraerr"
)

// Generate implements generate_bom (spec.md 4.5): depth-first, cycle-safe
// traversal of the containment hierarchy rooted at assemblyID, folding
// duplicate components into a single line item. logger may be nil.
func Generate(snap store.Snapshot, assemblyID model.ID, volume uint32, logger *logging.Logger) (*BomResult, error) {
	logger = logger.WithField("assembly_id", assemblyID).WithField("volume", volume)
	logger.Info("generating bill of materials")

	if volume == 0 {
		return nil, &tesseraerr.InvalidVolumeError{Volume: volume}
	}
	if _, ok := snap.Assembly(assemblyID); !ok {
		return nil, &tesseraerr.MissingEntityError{Kind: "assembly", ID: string(assemblyID)}
	}

	acc := make(map[model.ID]*LineItem)
	visiting := map[model.ID]bool{assemblyID: true}

	if err := traverse(snap, assemblyID, 1, volume, visiting, acc); err != nil {
		return nil, err
	}
	logger.WithField("line_items", len(acc)).Debug("containment traversal complete")

	result := &BomResult{AssemblyID: assemblyID, Volume: volume}
	for _, item := range acc {
		result.LineItems = append(result.LineItems, *item)
		result.TotalCost += item.LineTotal
		if item.Kind == Interpolated {
			result.HasInterpolatedCosts = true
		}
	}

	return result, nil
}

func traverse(snap store.Snapshot, assemblyID model.ID, multiplier uint64, volume uint32, visiting map[model.ID]bool, acc map[model.ID]*LineItem) error {
	for _, link := range snap.ContainmentLinksFrom(assemblyID) {
		childMultiplier := multiplier * uint64(link.Quantity)

		switch link.Kind {
		case model.AssemblyToAssembly:
			if visiting[link.ChildID] {
				return &tesseraerr.AssemblyCycleError{AssemblyID: string(link.ChildID)}
			}
			visiting[link.ChildID] = true
			if err := traverse(snap, link.ChildID, childMultiplier, volume, visiting, acc); err != nil {
				return err
			}
			delete(visiting, link.ChildID)

		case model.AssemblyToComponent:
			quotes := snap.QuotesForComponent(link.ChildID)
			unitCost, kind, r2 := resolveUnitCost(quotes, volume)
			totalQty := uint32(childMultiplier)
			lineTotal := unitCost * float64(totalQty) * float64(volume)

			if existing, ok := acc[link.ChildID]; ok {
				existing.TotalQuantity += totalQty
				existing.LineTotal += lineTotal
			} else {
				acc[link.ChildID] = &LineItem{
					ComponentID:   link.ChildID,
					TotalQuantity: totalQty,
					UnitCost:      unitCost,
					LineTotal:     lineTotal,
					Kind:          kind,
					RSquared:      r2,
				}
			}
		}
	}
	return nil
}
