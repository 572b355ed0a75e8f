package event

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusOnSale    Status = "on_sale"
	StatusSoldOut   Status = "sold_out"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusOnSale, StatusSoldOut, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

type Category string

const (
	CategoryConcert    Category = "concert"
	CategoryConference Category = "conference"
	CategorySports     Category = "sports"
	CategoryTheater    Category = "theater"
	CategoryFestival   Category = "festival"
	CategoryWorkshop   Category = "workshop"
	CategoryExhibition Category = "exhibition"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryConcert, CategoryConference, CategorySports, CategoryTheater,
		CategoryFestival, CategoryWorkshop, CategoryExhibition:
		return true
	default:
		return false
	}
}

type PerkCategory string

const (
	PerkEarlyEntry     PerkCategory = "early_entry"
	PerkVIP            PerkCategory = "vip"
	PerkMeetAndGreet   PerkCategory = "meet_and_greet"
	PerkMerchandise    PerkCategory = "merchandise"
	PerkDigitalContent PerkCategory = "digital_content"
)
