// README: Category panel controller: at most one panel open, toggle-to-close.
package panel

type Controller struct {
	open Category
}

func NewController() *Controller {
	return &Controller{}
}

// Toggle closes category when it is already open, otherwise opens it and closes the previous one.
func (c *Controller) Toggle(category Category) error {
	if _, err := Parse(string(category)); err != nil {
		return err
	}
	if c.open == category {
		c.open = CategoryNone
		return nil
	}
	c.open = category
	return nil
}

func (c *Controller) Open() Category {
	return c.open
}

func (c *Controller) IsOpen(category Category) bool {
	return category != CategoryNone && c.open == category
}
