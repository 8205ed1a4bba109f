// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xviper provides customizations on use of viper for configuration loading.
connexec's driver.NewViper uses AddStandardConfigPaths and BindConfig to locate a
configuration file in the usual *nix configuration locations, and driver.NewConfig uses
MustUnmarshal to load a driver.Config from it.
*/
package xviper
