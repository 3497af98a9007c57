package targets

import "github.com/JonMunkholm/lotexport/internal/core"

func init() {
	registerLiveAuctioneers()
}

func registerLiveAuctioneers() {
	core.Register(core.TargetDefinition{
		Info: core.TargetInfo{
			Key:        "liveauctioneers",
			Label:      "LiveAuctioneers",
			FilePrefix: "LiveAuc",
			Order:      2,
		},
		Headers: map[core.Field]string{
			core.FieldLotNum:    "LotNum",
			core.FieldTitle:     "Title",
			core.FieldDesc:      "Description",
			core.FieldLoEst:     "LowEst",
			core.FieldHiEst:     "HighEst",
			core.FieldStartBid:  "StartPrice",
			core.FieldCondition: "Condition",
			core.FieldHeight:    "Height",
			core.FieldWidth:     "Width",
			core.FieldDepth:     "Depth",
			core.FieldDimUnit:   "Dimension Unit",
			core.FieldWeight:    "Weight",
			core.FieldWtUnit:    "Weight Unit",
			core.FieldReserve:   "Reserve Price",
			core.FieldQty:       "Quantity",
		},
		Required: []core.Field{
			core.FieldLotNum,
			core.FieldTitle,
			core.FieldDesc,
			core.FieldLoEst,
			core.FieldHiEst,
			core.FieldStartBid,
		},
	})
}
