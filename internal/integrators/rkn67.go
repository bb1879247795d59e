package integrators

// RKN67 is the sixth-order embedded Nyström stepper: seven stages plus one
// evaluation at the committed positions, adapting with exponent 1/7.
type RKN67 struct {
	Nystrom
}

func NewRKN67(field AccelerationField) *RKN67 {
	return &RKN67{Nystrom{field: field, tableau: RKN67Tableau(), Control: DefaultControl()}}
}
