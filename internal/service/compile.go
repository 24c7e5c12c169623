package service

import (
	"strings"

	"roomnlu/internal/model"
)

// templateByIntent is the fixed lookup from case-folded intent to action
// template. Anything else compiles to noop.
var templateByIntent = map[string]string{
	model.IntentBook:              model.TemplateBook,
	model.IntentCheckAvailability: model.TemplateCheck,
	model.IntentCancel:            model.TemplateCancel,
	model.IntentModify:            model.TemplateModify,
}

// Compile selects the action template for the resolved intent and attaches
// structural validation warnings. Warnings are advisory; a CompiledRequest
// is always produced.
func Compile(slots model.SlotMap, args model.NormalizedArgs) model.CompiledRequest {
	template, ok := templateByIntent[strings.ToLower(slots[model.SlotIntent])]
	if !ok {
		template = model.TemplateNoop
	}

	warnings := []string{}
	if template == model.TemplateBook {
		if args.RoomID == nil {
			warnings = append(warnings, model.WarnMissingRoomID)
		}
		if args.Date == nil {
			warnings = append(warnings, model.WarnMissingDate)
		}
		if args.Start == nil || args.End == nil {
			warnings = append(warnings, model.WarnMissingTimeRange)
		}
		if args.Start != nil && args.End != nil && *args.Start >= *args.End {
			warnings = append(warnings, model.WarnInvalidTimeRange)
		}
	}

	return model.CompiledRequest{
		Template: template,
		Args:     args,
		Warnings: warnings,
	}
}
