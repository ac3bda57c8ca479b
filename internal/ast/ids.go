package ast

type (
	// главные сущности
	ItemID uint32
	TyID   uint32
	// подсущности
	PayloadID uint32
	ParamID   uint32
	GenericID uint32
)

const (
	NoItemID    ItemID    = 0
	NoTyID      TyID      = 0
	NoPayloadID PayloadID = 0
	NoParamID   ParamID   = 0
	NoGenericID GenericID = 0
)

func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id TyID) IsValid() bool      { return id != NoTyID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
func (id ParamID) IsValid() bool   { return id != NoParamID }
func (id GenericID) IsValid() bool { return id != NoGenericID }
