package targets

import "github.com/JonMunkholm/lotexport/internal/core"

func init() {
	registerInvaluable()
}

// registerInvaluable exports whole-unit prices and a separate lot extension
// column, as the Invaluable importer expects.
func registerInvaluable() {
	core.Register(core.TargetDefinition{
		Info: core.TargetInfo{
			Key:        "invaluable",
			Label:      "Invaluable",
			FilePrefix: "Invalu",
			Order:      1,
		},
		Headers: map[core.Field]string{
			core.FieldLotNum:    "Lot Number",
			core.FieldLotExt:    "Lot Ext",
			core.FieldTitle:     "Lot Title",
			core.FieldDesc:      "Lot Description",
			core.FieldLoEst:     "Lo Est",
			core.FieldHiEst:     "Hi Est",
			core.FieldStartBid:  "Starting Bid",
			core.FieldCondition: "Condition",
		},
		Required:          []core.Field{core.FieldLotNum, core.FieldTitle, core.FieldDesc},
		SplitLotExtension: true,
		IntegerPrices:     true,
	})
}
