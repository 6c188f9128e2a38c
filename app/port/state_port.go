package port

// Navigator receives client-side navigation requests from the auth
// state controller (sign-out always navigates to the sign-in page).
// The HTTP layer materializes the requested route as a redirect on the
// in-flight response.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(route string)

// Navigate implements Navigator
func (f NavigatorFunc) Navigate(route string) {
	f(route)
}
